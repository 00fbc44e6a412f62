package traverse

import "github.com/nooga/squash/pkg/ast"

// Walk visits every node of program once, depth first, calling t's hooks.
// Ancestors are pushed before a node's children are visited and popped
// before its exit hooks run, so a hook sees its node's parent on top of the
// stack. A scope stays open until the exit hooks of the node owning it
// have run.
func Walk(program *ast.Program, t Traverser, rctx *ReusableCtx) {
	w := &walker{t: t, ctx: rctx.reset()}
	w.program(program)
}

type walker struct {
	t   Traverser
	ctx *Ctx
}

func (w *walker) program(p *ast.Program) {
	scope := w.ctx.enterScope(ProgramScope)
	declareVars(scope, p.Statements)
	declareLexical(scope, p.Statements)

	w.ctx.push(p)
	w.statements(&p.Statements)
	w.ctx.pop()
	w.t.ExitProgram(p, w.ctx)
	w.ctx.exitScope()
}

func (w *walker) statements(list *[]ast.Statement) {
	for i := range *list {
		w.statement(&(*list)[i])
	}
	w.t.ExitStatements(list, w.ctx)
}

func (w *walker) statement(slot *ast.Statement) {
	switch s := (*slot).(type) {
	case *ast.ExpressionStatement:
		w.ctx.push(s)
		w.expression(&s.Expression)
		w.ctx.pop()
	case *ast.BlockStatement:
		w.block(s, slot)
		return
	case *ast.VariableDeclaration:
		w.variableDeclaration(s)
	case *ast.FunctionDeclaration:
		w.function(s, s.Func, false)
	case *ast.ReturnStatement:
		w.ctx.push(s)
		w.expression(&s.Argument)
		w.ctx.pop()
		w.t.ExitReturnStatement(s, w.ctx)
	case *ast.IfStatement:
		w.ctx.push(s)
		w.expression(&s.Test)
		w.statement(&s.Consequent)
		if s.Alternate != nil {
			w.statement(&s.Alternate)
		}
		w.ctx.pop()
	case *ast.WhileStatement:
		w.ctx.push(s)
		w.expression(&s.Test)
		w.statement(&s.Body)
		w.ctx.pop()
	case *ast.DoWhileStatement:
		w.ctx.push(s)
		w.statement(&s.Body)
		w.expression(&s.Test)
		w.ctx.pop()
	case *ast.ForStatement:
		w.forStatement(slot, s)
		return
	case *ast.ForInStatement:
		w.forInStatement(slot, s)
		return
	case *ast.ThrowStatement:
		w.ctx.push(s)
		w.expression(&s.Argument)
		w.ctx.pop()
	case *ast.TryStatement:
		w.ctx.push(s)
		w.block(s.Block, nil)
		if s.Handler != nil {
			w.catchClause(s.Handler)
		}
		if s.Finalizer != nil {
			w.block(s.Finalizer, nil)
		}
		w.ctx.pop()
	}
	w.t.ExitStatement(slot, w.ctx)
}

// block walks b. When b sits in a statement slot, ExitStatement fires for
// it before its scope closes.
func (w *walker) block(b *ast.BlockStatement, slot *ast.Statement) {
	scope := w.ctx.enterScope(BlockScope)
	declareLexical(scope, b.Statements)

	w.ctx.push(b)
	w.statements(&b.Statements)
	w.ctx.pop()
	w.t.ExitBlockStatement(b, w.ctx)
	if slot != nil {
		w.t.ExitStatement(slot, w.ctx)
	}
	w.ctx.exitScope()
}

func (w *walker) variableDeclaration(d *ast.VariableDeclaration) {
	w.ctx.push(d)
	for _, decl := range d.Declarations {
		w.expression(&decl.Init)
	}
	w.ctx.pop()
	w.t.ExitVariableDeclaration(d, w.ctx)
}

func (w *walker) forStatement(slot *ast.Statement, s *ast.ForStatement) {
	scope := w.ctx.enterScope(BlockScope)
	w.ctx.push(s)
	switch init := s.Init.(type) {
	case *ast.VariableDeclaration:
		if init.DeclKind != ast.Var {
			declareDeclarators(scope, init)
		}
		w.variableDeclaration(init)
	case ast.Expression:
		w.expression(&init)
		s.Init = init
	}
	w.expression(&s.Test)
	w.expression(&s.Update)
	w.statement(&s.Body)
	w.ctx.pop()
	w.t.ExitStatement(slot, w.ctx)
	w.ctx.exitScope()
}

func (w *walker) forInStatement(slot *ast.Statement, s *ast.ForInStatement) {
	scope := w.ctx.enterScope(BlockScope)
	w.ctx.push(s)
	switch left := s.Left.(type) {
	case *ast.VariableDeclaration:
		if left.DeclKind != ast.Var {
			declareDeclarators(scope, left)
		}
		w.variableDeclaration(left)
	case ast.Expression:
		w.target(&left)
		s.Left = left
	}
	w.expression(&s.Right)
	w.statement(&s.Body)
	w.ctx.pop()
	w.t.ExitStatement(slot, w.ctx)
	w.ctx.exitScope()
}

func (w *walker) catchClause(c *ast.CatchClause) {
	scope := w.ctx.enterScope(CatchScope)
	if c.Param != nil {
		scope.declare(c.Param.Name)
	}
	w.ctx.push(c)
	w.block(c.Body, nil)
	w.ctx.pop()
	w.t.ExitCatchClause(c, w.ctx)
	w.ctx.exitScope()
}

// function walks a declaration or expression. Only a function expression's
// own name is bound inside it; a declaration's name belongs to the
// enclosing scope.
func (w *walker) function(node ast.Node, fn *ast.Function, bindName bool) {
	scope := w.ctx.enterScope(FunctionScope)
	if bindName && fn.Name != nil {
		scope.declare(fn.Name.Name)
	}
	for _, param := range fn.Params {
		scope.declare(param.Name)
	}
	declareVars(scope, fn.Body.Statements)
	declareLexical(scope, fn.Body.Statements)

	w.ctx.push(node)
	w.functionBody(fn.Body)
	w.ctx.pop()
	w.ctx.exitScope()
}

func (w *walker) functionBody(body *ast.FunctionBody) {
	w.ctx.push(body)
	w.statements(&body.Statements)
	w.ctx.pop()
	w.t.ExitFunctionBody(body, w.ctx)
}

func (w *walker) arrow(a *ast.ArrowFunctionExpression) {
	scope := w.ctx.enterScope(FunctionScope)
	for _, param := range a.Params {
		scope.declare(param.Name)
	}
	if a.Body != nil {
		declareVars(scope, a.Body.Statements)
		declareLexical(scope, a.Body.Statements)
	}

	w.ctx.push(a)
	if a.Body != nil {
		w.functionBody(a.Body)
	} else {
		w.expression(&a.Expr)
	}
	w.ctx.pop()
	w.ctx.exitScope()
}

func (w *walker) expression(slot *ast.Expression) {
	switch e := (*slot).(type) {
	case nil:
		return
	case *ast.CallExpression:
		w.t.EnterCallExpression(e, w.ctx)
		w.ctx.push(e)
		w.expression(&e.Callee)
		w.expressions(e.Arguments)
		w.ctx.pop()
		w.t.ExitCallExpression(e, w.ctx)
	case *ast.NewExpression:
		w.ctx.push(e)
		w.expression(&e.Callee)
		w.expressions(e.Arguments)
		w.ctx.pop()
	case *ast.MemberExpression:
		w.member(e)
	case *ast.ArrayExpression:
		w.ctx.push(e)
		w.expressions(e.Elements)
		w.ctx.pop()
	case *ast.ObjectExpression:
		w.ctx.push(e)
		for _, prop := range e.Properties {
			w.property(prop)
		}
		w.ctx.pop()
	case *ast.FunctionExpression:
		w.function(e, e.Func, true)
	case *ast.ArrowFunctionExpression:
		w.arrow(e)
	case *ast.UnaryExpression:
		w.ctx.push(e)
		w.expression(&e.Argument)
		w.ctx.pop()
	case *ast.UpdateExpression:
		w.ctx.push(e)
		w.target(&e.Argument)
		w.ctx.pop()
	case *ast.BinaryExpression:
		w.ctx.push(e)
		w.expression(&e.Left)
		w.expression(&e.Right)
		w.ctx.pop()
	case *ast.LogicalExpression:
		w.ctx.push(e)
		w.expression(&e.Left)
		w.expression(&e.Right)
		w.ctx.pop()
	case *ast.ConditionalExpression:
		w.ctx.push(e)
		w.expression(&e.Test)
		w.expression(&e.Consequent)
		w.expression(&e.Alternate)
		w.ctx.pop()
	case *ast.AssignmentExpression:
		w.ctx.push(e)
		w.target(&e.Target)
		w.expression(&e.Value)
		w.ctx.pop()
	case *ast.SequenceExpression:
		w.ctx.push(e)
		w.expressions(e.Expressions)
		w.ctx.pop()
	case *ast.SpreadElement:
		w.ctx.push(e)
		w.expression(&e.Argument)
		w.ctx.pop()
	}
	w.t.ExitExpression(slot, w.ctx)
}

// expressions walks each slot of list; nil slots (array holes) are skipped.
func (w *walker) expressions(list []ast.Expression) {
	for i := range list {
		w.expression(&list[i])
	}
}

// target walks an assignment target. Its children are visited but the
// target slot itself gets no ExitExpression.
func (w *walker) target(slot *ast.Expression) {
	if m, ok := (*slot).(*ast.MemberExpression); ok {
		w.member(m)
	}
}

func (w *walker) member(m *ast.MemberExpression) {
	w.ctx.push(m)
	w.expression(&m.Object)
	if m.Computed {
		w.expression(&m.Property)
	}
	w.ctx.pop()
	w.t.ExitMemberExpression(m, w.ctx)
}

func (w *walker) property(p *ast.Property) {
	w.ctx.push(p)
	if p.Key.Computed {
		w.expression(&p.Key.Expr)
	}
	w.t.ExitPropertyKey(p.Key, w.ctx)
	w.expression(&p.Value)
	w.ctx.pop()
}
