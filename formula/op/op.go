package op

type Op rune

const (
	Invalid Op = 0

	EOF Op = 1 << iota
	Ident
	Func
	Cell
	Number
	Literal
	Not
	Add
	Sub
	Mul
	Div
	Percent
	Pow
	Concat
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	Comma
	Semi
	Begin
	End
	RangeRef
	SheetRef
)

const (
	groupTok Op = 1 << (iota + 28)
	arrayTok
)

const (
	BegGrp = groupTok | Begin
	EndGrp = groupTok | End
	BegArr = arrayTok | Begin
	EndArr = arrayTok | End
)

var mapping = map[Op]string{
	Add:      "+",
	Sub:      "-",
	Mul:      "*",
	Pow:      "^",
	Div:      "/",
	Percent:  "%",
	Concat:   "&",
	Eq:       "=",
	Ne:       "<>",
	Lt:       "<",
	Le:       "<=",
	Gt:       ">",
	Ge:       ">=",
	Not:      "NOT",
	Comma:    ",",
	Semi:     ";",
	RangeRef: ":",
	SheetRef: "!",
	BegGrp:   "(",
	EndGrp:   ")",
	BegArr:   "{",
	EndArr:   "}",
}

func Symbol(oper Op) string {
	return mapping[oper]
}

func IsComparison(oper Op) bool {
	switch oper {
	case Eq, Ne, Lt, Le, Gt, Ge:
		return true
	default:
		return false
	}
}
