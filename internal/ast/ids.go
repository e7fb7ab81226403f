package ast

type (
	StmtID    uint32
	PayloadID uint32
)

const (
	NoStmtID    StmtID    = 0
	NoPayloadID PayloadID = 0
)

func (id StmtID) IsValid() bool    { return id != NoStmtID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
