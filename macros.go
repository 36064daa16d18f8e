package strada

// patternMacros maps constraint macro names to regexp bodies. Used in
// route parameters: :name{macro}.
var patternMacros = map[string]string{
	"uuid":     `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
	"int":      `[0-9]+`,
	"float":    `[0-9]*\.?[0-9]+`,
	"slug":     `[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)*`,
	"alpha":    `[a-zA-Z]+`,
	"alphanum": `[a-zA-Z0-9]+`,
	"date":     `[0-9]{4}-[0-9]{2}-[0-9]{2}`,
	"hex":      `[0-9a-fA-F]+`,
}

// expandMacro returns the regexp body for a macro name. If the name is
// not a known macro, it returns the input unchanged so arbitrary regexp
// bodies keep working.
func expandMacro(expr string) string {
	if body, ok := patternMacros[expr]; ok {
		return body
	}
	return expr
}
