// Package fuzztests houses Go fuzz harnesses for the analysis pipeline
// (source -> tracker -> lexer -> parser -> checker). They guard the rule
// that no input makes the engine panic, hang, or report a diagnostic
// outside the document.
//
// Назначение: гонять произвольные байты через FileSet, трекер, лексер и
// driver.Analyze, проверяя инварианты спанов.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
