package selector

import (
	"strings"
)

// nestingPseudos take a selector list as argument.
var nestingPseudos = map[string]struct{}{
	"not":          {},
	"any":          {},
	"-webkit-any":  {},
	"matches":      {},
	"is":           {},
	"where":        {},
	"has":          {},
	"local":        {},
	"global":       {},
	"host":         {},
	"host-context": {},
}

// NestsSelectors reports whether the functional pseudo-class name takes a selector list.
func NestsSelectors(name string) bool {
	_, ok := nestingPseudos[strings.ToLower(name)]
	return ok
}

var nativePseudoClasses = map[string]struct{}{}

var nativePseudoElements = map[string]struct{}{}

func init() {
	for _, name := range strings.Fields(`
		active any any-link autofill blank checked current default defined dir
		disabled empty enabled first first-child first-of-type focus
		focus-visible focus-within fullscreen future has host host-context hover
		in-range indeterminate invalid is lang last-child last-of-type left link
		local-link matches modal not nth-child nth-col nth-last-child nth-last-col
		nth-last-of-type nth-of-type only-child only-of-type optional
		out-of-range past paused picture-in-picture placeholder-shown playing
		popover-open read-only read-write required right root scope state target
		target-within user-invalid user-valid valid visited where`) {
		nativePseudoClasses[name] = struct{}{}
	}
	for _, name := range strings.Fields(`
		after backdrop before cue cue-region file-selector-button first-letter
		first-line grammar-error highlight marker part placeholder selection
		slotted spelling-error target-text view-transition view-transition-group
		view-transition-image-pair view-transition-new view-transition-old`) {
		nativePseudoElements[name] = struct{}{}
	}
}

// IsNativePseudoClass reports whether name is a browser pseudo-class.
// Vendor prefixed names are always accepted.
func IsNativePseudoClass(name string) bool {
	name = strings.ToLower(name)
	if isVendor(name) {
		return true
	}
	_, ok := nativePseudoClasses[name]
	return ok
}

// IsNativePseudoElement reports whether name is a browser pseudo-element.
func IsNativePseudoElement(name string) bool {
	name = strings.ToLower(name)
	if isVendor(name) {
		return true
	}
	_, ok := nativePseudoElements[name]
	return ok
}

func isVendor(name string) bool {
	return strings.HasPrefix(name, "-webkit-") || strings.HasPrefix(name, "-moz-") ||
		strings.HasPrefix(name, "-ms-") || strings.HasPrefix(name, "-o-")
}
