// Package format reindents SysY+ sources by structural brace depth.
//
// Назначение: `sysy fmt` и textDocument/formatting.
// Не делает: переноса строк, выравнивания выражений, перестановки токенов.
// Зависимости: internal/lexer (трекер режимов), internal/source.
package format
