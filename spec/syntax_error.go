package spec

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return e.message
}

var (
	// lexical errors
	synErrUnclosedLiteral = newSyntaxError("unclosed literal")
	synErrInvalidChar     = newSyntaxError("invalid character")

	// syntax errors
	synErrUnexpectedToken = newSyntaxError("a statement must start with a production name or a keyword")
	synErrNoEquals        = newSyntaxError("the = must follow a name")
	synErrNoSemicolon     = newSyntaxError("the semicolon is missing at the end of a statement")
	synErrNoElement       = newSyntaxError("an alternative needs at least one symbol; write '' for an empty alternative")
	synErrNoPlus          = newSyntaxError("symbols of an alternative must be joined by +")
	synErrNoHook          = newSyntaxError("a hook is missing after the colon")
	synErrNoTypeName      = newSyntaxError("a type declaration needs a symbol name")
	synErrNoType          = newSyntaxError("a type declaration needs a type")
	synErrNoAtomName      = newSyntaxError("an atom name is missing")
	synErrNoPatternName   = newSyntaxError("a pattern declaration needs a terminal name")
	synErrNoPattern       = newSyntaxError("a pattern must be a quoted, non-empty string")
	synErrNoIncludeText   = newSyntaxError("an include needs a text")
)
