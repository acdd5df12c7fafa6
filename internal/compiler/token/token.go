// Package token defines the lexical vocabulary of Cadenza source files.
package token

type Type string

type Position struct {
	Line   int
	Column int
	Offset int
}

type Token struct {
	Type   Type
	Lexeme string
	Pos    Position
	// Literal carries the decoded payload for literal tokens: int64 for
	// INT, float64 for DECIMAL, a decoded string for STRING, a raw spec
	// block body for SPEC, and []InterpPart for ISTRING. nil otherwise.
	Literal any
}

// InterpPart is one fragment of an interpolated string's payload: either a
// literal text chunk or the raw, not-yet-parsed source text of an embedded
// expression together with the position it started at.
type InterpPart struct {
	IsExpr bool
	Text   string
	Pos    Position
}

const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"

	IDENT   Type = "IDENT"
	INT     Type = "INT"
	DECIMAL Type = "DECIMAL"
	STRING  Type = "STRING"
	ISTRING Type = "ISTRING" // interpolated string; Literal carries []InterpPart
	SPEC    Type = "SPEC"    // /*spec ... spec*/ block; Literal carries raw text

	// Keywords
	FUNCTION      Type = "FUNCTION"
	PURE          Type = "PURE"
	RETURN        Type = "RETURN"
	IF            Type = "IF"
	ELSE          Type = "ELSE"
	LET           Type = "LET"
	GUARD         Type = "GUARD"
	MATCH         Type = "MATCH"
	USES          Type = "USES"
	MODULE        Type = "MODULE"
	IMPORT        Type = "IMPORT"
	EXPORT        Type = "EXPORT"
	FROM          Type = "FROM"
	COMPONENT     Type = "COMPONENT"
	STATE         Type = "STATE"
	EVENTS        Type = "EVENTS"
	RENDER        Type = "RENDER"
	ON_MOUNT      Type = "ON_MOUNT"
	EVENT_HANDLER Type = "EVENT_HANDLER"
	APP_STATE     Type = "APP_STATE"
	ACTION        Type = "ACTION"
	UPDATES       Type = "UPDATES"
	API_CLIENT    Type = "API_CLIENT"
	ENDPOINT      Type = "ENDPOINT"
	FOR           Type = "FOR"
	IN            Type = "IN"
	WHERE         Type = "WHERE"
	RESULT        Type = "RESULT"
	OK            Type = "OK"
	ERRORK        Type = "ERRORK" // the `Error` constructor/pattern keyword
	SOME          Type = "SOME"
	NONE          Type = "NONE"
	OPTION        Type = "OPTION"
	LIST          Type = "LIST"
	TRUE          Type = "TRUE"
	FALSE         Type = "FALSE"

	// Primitive type keywords
	T_STRING Type = "T_STRING"
	T_INT    Type = "T_INT"
	T_BOOL   Type = "T_BOOL"
	T_UNIT   Type = "T_UNIT"

	// Effect keywords
	EFFECT_DATABASE   Type = "EFFECT_DATABASE"
	EFFECT_NETWORK    Type = "EFFECT_NETWORK"
	EFFECT_LOGGING    Type = "EFFECT_LOGGING"
	EFFECT_FILESYSTEM Type = "EFFECT_FILESYSTEM"
	EFFECT_MEMORY     Type = "EFFECT_MEMORY"
	EFFECT_IO         Type = "EFFECT_IO"

	// Punctuation / operators
	ARROW     Type = "->"
	FAT_ARROW Type = "=>"
	EQ        Type = "=="
	NOT_EQ    Type = "!="
	LT_EQ     Type = "<="
	GT_EQ     Type = ">="
	LT        Type = "<"
	GT        Type = ">"
	AND       Type = "&&"
	OR        Type = "||"
	BANG      Type = "!"
	QUESTION  Type = "?"
	DOT       Type = "."
	COMMA     Type = ","
	SEMICOLON Type = ";"
	COLON     Type = ":"
	ASSIGN    Type = "="
	LBRACE    Type = "{"
	RBRACE    Type = "}"
	LBRACKET  Type = "["
	RBRACKET  Type = "]"
	LPAREN    Type = "("
	RPAREN    Type = ")"
	PLUS      Type = "+"
	MINUS     Type = "-"
	ASTERISK  Type = "*"
	SLASH     Type = "/"
	PERCENT   Type = "%"
)

var keywords = map[string]Type{
	"function":      FUNCTION,
	"pure":          PURE,
	"return":        RETURN,
	"if":            IF,
	"else":          ELSE,
	"let":           LET,
	"guard":         GUARD,
	"match":         MATCH,
	"uses":          USES,
	"module":        MODULE,
	"import":        IMPORT,
	"export":        EXPORT,
	"from":          FROM,
	"component":     COMPONENT,
	"state":         STATE,
	"events":        EVENTS,
	"render":        RENDER,
	"on_mount":      ON_MOUNT,
	"event_handler": EVENT_HANDLER,
	"app_state":     APP_STATE,
	"action":        ACTION,
	"updates":       UPDATES,
	"api_client":    API_CLIENT,
	"endpoint":      ENDPOINT,
	"for":           FOR,
	"in":            IN,
	"where":         WHERE,
	"Result":        RESULT,
	"Ok":            OK,
	"Error":         ERRORK,
	"Some":          SOME,
	"None":          NONE,
	"Option":        OPTION,
	"List":          LIST,
	"true":          TRUE,
	"false":         FALSE,
	"string":        T_STRING,
	"int":           T_INT,
	"bool":          T_BOOL,
	"Unit":          T_UNIT,
	"Database":      EFFECT_DATABASE,
	"Network":       EFFECT_NETWORK,
	"Logging":       EFFECT_LOGGING,
	"FileSystem":    EFFECT_FILESYSTEM,
	"Memory":        EFFECT_MEMORY,
	"IO":            EFFECT_IO,
}

// LookupIdent classifies a scanned identifier as a keyword or a plain IDENT.
func LookupIdent(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}

// IsEffectName reports whether t names one of the recognized effect
// categories (spec §4.1).
func IsEffectName(t Type) bool {
	switch t {
	case EFFECT_DATABASE, EFFECT_NETWORK, EFFECT_LOGGING, EFFECT_FILESYSTEM, EFFECT_MEMORY, EFFECT_IO:
		return true
	}
	return false
}
