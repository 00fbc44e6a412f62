package minifier

import "github.com/nooga/squash/pkg/traverse"

// RuleID names one of the peephole rules. The constants are in declaration
// order.
type RuleID int

const (
	StatementFusion RuleID = iota
	MinimizeExitPoints
	ExploitAssigns
	CollapseVariableDeclarations
	RemoveDeadCode
	MinimizeConditions
	SubstituteAlternateSyntax
	ReplaceKnownMethods
	FoldConstants
	ConvertToDottedProperties

	numRules
)

var ruleNames = [numRules]string{
	"StatementFusion",
	"MinimizeExitPoints",
	"ExploitAssigns",
	"CollapseVariableDeclarations",
	"RemoveDeadCode",
	"MinimizeConditions",
	"SubstituteAlternateSyntax",
	"ReplaceKnownMethods",
	"FoldConstants",
	"ConvertToDottedProperties",
}

func (id RuleID) String() string {
	if id < 0 || id >= numRules {
		return "RuleID(?)"
	}
	return ruleNames[id]
}

// hookTable lists, per hook, the rules dispatched on it in firing order.
type hookTable map[traverse.Hook][]RuleID

// peepholeHooks is the dispatch order of the full pipeline. Within a hook,
// later rules see what earlier ones produced on the same node.
var peepholeHooks = hookTable{
	traverse.ExitProgram:      {StatementFusion, RemoveDeadCode},
	traverse.ExitFunctionBody: {StatementFusion, RemoveDeadCode},
	traverse.ExitStatements: {
		MinimizeExitPoints,
		ExploitAssigns,
		CollapseVariableDeclarations,
		RemoveDeadCode,
		MinimizeConditions,
	},
	traverse.ExitStatement:           {RemoveDeadCode, MinimizeConditions},
	traverse.ExitBlockStatement:      {StatementFusion},
	traverse.ExitReturnStatement:     {SubstituteAlternateSyntax},
	traverse.ExitVariableDeclaration: {SubstituteAlternateSyntax},
	traverse.ExitExpression: {
		RemoveDeadCode,
		MinimizeConditions,
		SubstituteAlternateSyntax,
		ReplaceKnownMethods,
		FoldConstants,
	},
	traverse.EnterCallExpression:  {SubstituteAlternateSyntax},
	traverse.ExitCallExpression:   {SubstituteAlternateSyntax},
	traverse.ExitPropertyKey:      {ConvertToDottedProperties},
	traverse.ExitMemberExpression: {ConvertToDottedProperties},
	traverse.ExitCatchClause:      {SubstituteAlternateSyntax},
}

// deadCodeHooks is the reduced pipeline. Its order is independent of
// peepholeHooks: folding runs before removal on expressions.
var deadCodeHooks = hookTable{
	traverse.ExitStatement:    {RemoveDeadCode},
	traverse.ExitProgram:      {RemoveDeadCode},
	traverse.ExitFunctionBody: {RemoveDeadCode},
	traverse.ExitStatements:   {RemoveDeadCode},
	traverse.ExitExpression:   {FoldConstants, RemoveDeadCode},
}

// rulesOf returns the distinct rules a table dispatches to, in declaration
// order.
func (t hookTable) rulesOf() []RuleID {
	var used [numRules]bool
	for _, ids := range t {
		for _, id := range ids {
			used[id] = true
		}
	}
	var ids []RuleID
	for id := RuleID(0); id < numRules; id++ {
		if used[id] {
			ids = append(ids, id)
		}
	}
	return ids
}
