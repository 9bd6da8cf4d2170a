package features

import (
	"regexp"
	"strconv"
	"strings"
)

// ClassName is the output class of a local class, keyframes, layer or container.
func ClassName(ns, name string) string {
	return ns + "__" + name
}

// StateClass is the output class of a boolean pseudo-state.
func StateClass(ns, state string) string {
	return ns + "--" + state
}

var whitespace = regexp.MustCompile(`\s`)

// StateParamClass is the output class of a pseudo-state with a parameter.
func StateParamClass(ns, state, param string) string {
	return ns + "---" + state + "-" + strconv.Itoa(len(param)) + "-" + whitespace.ReplaceAllString(param, "_")
}

// CSSVarName is the output name of a local custom property.
func CSSVarName(ns, name string) string {
	return "--" + ns + "-" + strings.TrimPrefix(name, "--")
}
