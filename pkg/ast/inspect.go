package ast

// Inspect visits node and its descendants depth first, calling f before
// each node's children. Children are skipped when f returns false. Nil
// children are not visited.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	switch n := node.(type) {
	case *Program:
		inspectStatements(n.Statements, f)
	case *FunctionBody:
		inspectStatements(n.Statements, f)
	case *Function:
		if n.Name != nil {
			Inspect(n.Name, f)
		}
		for _, p := range n.Params {
			Inspect(p, f)
		}
		Inspect(n.Body, f)
	case *ExpressionStatement:
		Inspect(n.Expression, f)
	case *BlockStatement:
		inspectStatements(n.Statements, f)
	case *VariableDeclaration:
		for _, d := range n.Declarations {
			Inspect(d, f)
		}
	case *VariableDeclarator:
		Inspect(n.Name, f)
		Inspect(n.Init, f)
	case *FunctionDeclaration:
		Inspect(n.Func, f)
	case *ReturnStatement:
		Inspect(n.Argument, f)
	case *IfStatement:
		Inspect(n.Test, f)
		Inspect(n.Consequent, f)
		Inspect(n.Alternate, f)
	case *WhileStatement:
		Inspect(n.Test, f)
		Inspect(n.Body, f)
	case *DoWhileStatement:
		Inspect(n.Body, f)
		Inspect(n.Test, f)
	case *ForStatement:
		Inspect(n.Init, f)
		Inspect(n.Test, f)
		Inspect(n.Update, f)
		Inspect(n.Body, f)
	case *ForInStatement:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
		Inspect(n.Body, f)
	case *ThrowStatement:
		Inspect(n.Argument, f)
	case *CatchClause:
		if n.Param != nil {
			Inspect(n.Param, f)
		}
		Inspect(n.Body, f)
	case *TryStatement:
		Inspect(n.Block, f)
		if n.Handler != nil {
			Inspect(n.Handler, f)
		}
		if n.Finalizer != nil {
			Inspect(n.Finalizer, f)
		}
	case *ArrayExpression:
		inspectExpressions(n.Elements, f)
	case *PropertyKey:
		Inspect(n.Expr, f)
	case *Property:
		Inspect(n.Key, f)
		Inspect(n.Value, f)
	case *ObjectExpression:
		for _, p := range n.Properties {
			Inspect(p, f)
		}
	case *FunctionExpression:
		Inspect(n.Func, f)
	case *ArrowFunctionExpression:
		for _, p := range n.Params {
			Inspect(p, f)
		}
		if n.Body != nil {
			Inspect(n.Body, f)
		} else {
			Inspect(n.Expr, f)
		}
	case *UnaryExpression:
		Inspect(n.Argument, f)
	case *UpdateExpression:
		Inspect(n.Argument, f)
	case *BinaryExpression:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *LogicalExpression:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *ConditionalExpression:
		Inspect(n.Test, f)
		Inspect(n.Consequent, f)
		Inspect(n.Alternate, f)
	case *AssignmentExpression:
		Inspect(n.Target, f)
		Inspect(n.Value, f)
	case *SequenceExpression:
		inspectExpressions(n.Expressions, f)
	case *CallExpression:
		Inspect(n.Callee, f)
		inspectExpressions(n.Arguments, f)
	case *NewExpression:
		Inspect(n.Callee, f)
		inspectExpressions(n.Arguments, f)
	case *MemberExpression:
		Inspect(n.Object, f)
		Inspect(n.Property, f)
	case *SpreadElement:
		Inspect(n.Argument, f)
	}
}

func inspectStatements(list []Statement, f func(Node) bool) {
	for _, s := range list {
		Inspect(s, f)
	}
}

func inspectExpressions(list []Expression, f func(Node) bool) {
	for _, e := range list {
		Inspect(e, f)
	}
}
