package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Разбор CSS
	CSSInfo                 Code = 1000
	CSSUnclosedBlock        Code = 1001
	CSSUnexpectedCloseBrace Code = 1002
	CSSUnclosedString       Code = 1003
	CSSUnclosedComment      Code = 1004
	CSSUnknownWord          Code = 1005
	CSSBadURL               Code = 1006
	CSSEmptyDeclValue       Code = 1007

	// Таблица символов
	SymInfo      Code = 2000
	SymRedeclare Code = 2001

	// Импорты и разрешение
	ImpInfo                   Code = 3000
	ImpStar                   Code = 3001
	ImpInvalidFormat          Code = 3002
	ImpAtRuleEmptyFrom        Code = 3003
	ImpEmptyFrom              Code = 3004
	ImpMultipleFrom           Code = 3005
	ImpDefaultLowerCase       Code = 3006
	ImpIllegalProp            Code = 3007
	ImpFromMissing            Code = 3008
	ImpInvalidNamedAs         Code = 3009
	ImpInvalidNestedKeyframes Code = 3010
	ImpAttemptOverride        Code = 3011
	ImpNestedScope            Code = 3012
	ImpPseudoNestedScope      Code = 3013
	ImpComplexSelector        Code = 3014
	ImpCustomPropertyAsValue  Code = 3015
	ImpUnknownFile            Code = 3016
	ImpUnknownSymbol          Code = 3017
	ImpCircular               Code = 3018

	// Пространства имён
	NspInfo             Code = 4000
	NspInvalidDef       Code = 4001
	NspEmptyDef         Code = 4002
	NspInvalidReference Code = 4003

	// Селекторы, скоупинг, global, custom selectors, состояния
	SelInfo                   Code = 5000
	SelParse                  Code = 5001
	SelRootAfterSpacing       Code = 5002
	SelUnscopedClass          Code = 5003
	SelUnscopedType           Code = 5004
	SelInvalidFunctional      Code = 5005
	SelInvalidNesting         Code = 5006
	SelUnknownCustomSelector  Code = 5007
	SelCircularCustomSelector Code = 5008
	SelGlobalMultiSelector    Code = 5009
	SelCannotResolveExtend    Code = 5010
	SelCircularExtends        Code = 5011
	SelInvalidStateDef        Code = 5012
	SelUnknownPseudoClass     Code = 5013
	SelUnknownPseudoElement   Code = 5014
	SelDefInComplex           Code = 5015
	SelInvalidGlobalDecl      Code = 5016
	SelStateParamMissing      Code = 5017
	SelDeclInScope            Code = 5018
	SelScopeMissingParam      Code = 5019
	SelOverrideImportedClass  Code = 5020

	// :vars и custom properties
	VarInfo                Code = 6000
	VarNoVarsInScope       Code = 6001
	VarUnknownVar          Code = 6002
	VarCyclicValue         Code = 6003
	VarIllegalGlobalName   Code = 6004
	VarPropertyMissingName Code = 6005
	VarComplexVarsSelector Code = 6006
	VarUnknownCustomProp   Code = 6007

	// @keyframes, @layer, @container
	AtrInfo                 Code = 7000
	AtrKeyframesMissingName Code = 7001
	AtrKeyframesIllegalName Code = 7002
	AtrKeyframesInScope     Code = 7003
	AtrUnknownKeyframes     Code = 7004
	AtrLayerBlockMultiple   Code = 7005
	AtrLayerReservedName    Code = 7006
	AtrUnknownContainer     Code = 7007
	AtrContainerInvalidName Code = 7008
	AtrUnknownLayer         Code = 7009

	// Миксины
	MixInfo         Code = 8000
	MixInvalidMerge Code = 8001
	MixUnknown      Code = 8002
	MixCircular     Code = 8003
	MixInvalidKind  Code = 8004

	// Общие
	GenInfo     Code = 9000
	GenInternal Code = 9001
	GenTimings  Code = 9002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:               "Unknown error",
		CSSInfo:                   "CSS parse information",
		CSSUnclosedBlock:          "Unclosed block",
		CSSUnexpectedCloseBrace:   "Unexpected '}'",
		CSSUnclosedString:         "Unclosed string",
		CSSUnclosedComment:        "Unclosed comment",
		CSSUnknownWord:            "Unknown word",
		CSSBadURL:                 "Malformed url()",
		CSSEmptyDeclValue:         "Declaration without value",
		SymInfo:                   "Symbol information",
		SymRedeclare:              "Symbol redeclared",
		ImpInfo:                   "Import information",
		ImpStar:                   "Star import is not supported",
		ImpInvalidFormat:          "Invalid @st-import format",
		ImpAtRuleEmptyFrom:        "@st-import without from",
		ImpEmptyFrom:              "Empty -st-from",
		ImpMultipleFrom:           "Multiple -st-from in one import",
		ImpDefaultLowerCase:       "Lower-case default import",
		ImpIllegalProp:            "Illegal property in :import",
		ImpFromMissing:            "Missing -st-from",
		ImpInvalidNamedAs:         "Invalid named import 'as'",
		ImpInvalidNestedKeyframes: "Nested keyframes() import",
		ImpAttemptOverride:        "Attempt to override import symbol",
		ImpNestedScope:            "@st-import in nested scope",
		ImpPseudoNestedScope:      ":import in nested scope",
		ImpComplexSelector:        ":import in complex selector",
		ImpCustomPropertyAsValue:  "Custom property imported as non custom property",
		ImpUnknownFile:            "Unknown imported file",
		ImpUnknownSymbol:          "Unknown imported symbol",
		ImpCircular:               "Circular import chain",
		NspInfo:                   "Namespace information",
		NspInvalidDef:             "Invalid @namespace",
		NspEmptyDef:               "Empty @namespace",
		NspInvalidReference:       "Invalid st-namespace-reference",
		SelInfo:                   "Selector information",
		SelParse:                  "Malformed selector",
		SelRootAfterSpacing:       "Root class after combinator",
		SelUnscopedClass:          "Unscoped imported class",
		SelUnscopedType:           "Unscoped imported element",
		SelInvalidFunctional:      "Invalid functional selector",
		SelInvalidNesting:         "Nested rule",
		SelUnknownCustomSelector:  "Unknown custom selector",
		SelCircularCustomSelector: "Circular custom selector",
		SelGlobalMultiSelector:    "Multiple selectors in :global()",
		SelCannotResolveExtend:    "Cannot resolve -st-extends",
		SelCircularExtends:        "Circular -st-extends",
		SelInvalidStateDef:        "Invalid -st-states definition",
		SelUnknownPseudoClass:     "Unknown pseudo-class",
		SelUnknownPseudoElement:   "Unknown pseudo-element",
		SelDefInComplex:           "Definition in complex selector",
		SelInvalidGlobalDecl:      "Invalid -st-global",
		SelStateParamMissing:      "Missing pseudo-state parameter",
		SelDeclInScope:            "Declaration directly in @st-scope",
		SelScopeMissingParam:      "@st-scope without selector",
		SelOverrideImportedClass:  "Definition on imported class",
		VarInfo:                   "Variable information",
		VarNoVarsInScope:          ":vars in nested scope",
		VarUnknownVar:             "Unknown var",
		VarCyclicValue:            "Cyclic var value",
		VarIllegalGlobalName:      "Illegal global custom property",
		VarPropertyMissingName:    "@property without name",
		VarComplexVarsSelector:    ":vars in complex selector",
		VarUnknownCustomProp:      "Unknown imported custom property",
		AtrInfo:                   "At-rule information",
		AtrKeyframesMissingName:   "@keyframes without name",
		AtrKeyframesIllegalName:   "Illegal @keyframes name",
		AtrKeyframesInScope:       "@keyframes in nested scope",
		AtrUnknownKeyframes:       "Unknown imported keyframes",
		AtrLayerBlockMultiple:     "@layer block with several names",
		AtrLayerReservedName:      "Reserved @layer name",
		AtrUnknownContainer:       "Unknown container",
		AtrContainerInvalidName:   "Invalid container name",
		AtrUnknownLayer:           "Unknown imported layer",
		MixInfo:                   "Mixin information",
		MixInvalidMerge:           "Invalid merge into keyframes",
		MixUnknown:                "Unknown mixin",
		MixCircular:               "Circular mixin",
		MixInvalidKind:            "Mixin is not a class",
		GenInfo:                   "General information",
		GenInternal:               "Internal error",
		GenTimings:                "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("CSS%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYM%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("IMP%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("NSP%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("SEL%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("VAR%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("ATR%04d", ic)
	case ic >= 8000 && ic < 9000:
		return fmt.Sprintf("MIX%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("GEN%04d", ic)
	}
	return "E0000"
}

// Family returns the thousands bucket a code belongs to.
func (c Code) Family() Code {
	return c / 1000 * 1000
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
