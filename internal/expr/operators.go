package expr

func (e *Evaluator) dispatch(op string) error {
	switch op {
	case "+", "-", "*", "/":
		return e.arith(op)
	case "neg":
		return e.neg()
	case "==", "!=", "<", ">", "<=", ">=":
		return e.compare(op)
	case "and", "or":
		return e.boolBinary(op)
	case "not":
		return e.not()
	case "if":
		return e.ifOp()
	case "ifelse":
		return e.ifElseOp()
	case "dup":
		return e.dup()
	case "pop":
		_, err := e.pop("pop")
		return err
	case "exch":
		return e.exch()
	case "imp":
		return e.imp()
	case "egms":
		return e.egms()
	case "clsref":
		return e.clsref()
	default:
		return &UnknownOperatorError{Name: op}
	}
}

func (e *Evaluator) arith(op string) error {
	b, err := e.popNumeric(op)
	if err != nil {
		return err
	}
	a, err := e.popNumeric(op)
	if err != nil {
		return err
	}
	var result float64
	switch op {
	case "+":
		result = a + b
	case "-":
		result = a - b
	case "*":
		result = a * b
	case "/":
		if b == 0 {
			return &ErrDivisionByZero{}
		}
		result = a / b
	}
	e.push(FloatValue(result))
	return nil
}

func (e *Evaluator) neg() error {
	a, err := e.popNumeric("neg")
	if err != nil {
		return err
	}
	e.push(FloatValue(-a))
	return nil
}

func (e *Evaluator) compare(op string) error {
	b, err := e.pop(op)
	if err != nil {
		return err
	}
	a, err := e.pop(op)
	if err != nil {
		return err
	}

	af, aNum := a.Float()
	bf, bNum := b.Float()
	if aNum && bNum {
		e.push(BoolValue(numericCompare(op, af, bf)))
		return nil
	}

	switch op {
	case "==":
		e.push(BoolValue(a.Equal(b)))
		return nil
	case "!=":
		e.push(BoolValue(!a.Equal(b)))
		return nil
	default:
		return &TypeError{Expected: "numeric operands for ordering comparison", Found: kindName(a.Kind()) + "/" + kindName(b.Kind())}
	}
}

func numericCompare(op string, a, b float64) bool {
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	case ">=":
		return a >= b
	}
	return false
}

func (e *Evaluator) boolBinary(op string) error {
	b, err := e.popBool(op)
	if err != nil {
		return err
	}
	a, err := e.popBool(op)
	if err != nil {
		return err
	}
	if op == "and" {
		e.push(BoolValue(a && b))
	} else {
		e.push(BoolValue(a || b))
	}
	return nil
}

func (e *Evaluator) not() error {
	a, err := e.popBool("not")
	if err != nil {
		return err
	}
	e.push(BoolValue(!a))
	return nil
}

func (e *Evaluator) ifOp() error {
	proc, err := e.popProcedure("if")
	if err != nil {
		return err
	}
	cond, err := e.popBool("if")
	if err != nil {
		return err
	}
	if cond {
		sub := &Evaluator{stack: e.stack}
		result, err := sub.Run(proc)
		if err != nil {
			return err
		}
		e.stack = sub.stack
		if result.Kind != ResultNone {
			e.result = result
		}
	}
	return nil
}

func (e *Evaluator) ifElseOp() error {
	elseProc, err := e.popProcedure("ifelse")
	if err != nil {
		return err
	}
	thenProc, err := e.popProcedure("ifelse")
	if err != nil {
		return err
	}
	cond, err := e.popBool("ifelse")
	if err != nil {
		return err
	}
	chosen := elseProc
	if cond {
		chosen = thenProc
	}
	sub := &Evaluator{stack: e.stack}
	result, err := sub.Run(chosen)
	if err != nil {
		return err
	}
	e.stack = sub.stack
	if result.Kind != ResultNone {
		e.result = result
	}
	return nil
}

func (e *Evaluator) dup() error {
	v, err := e.pop("dup")
	if err != nil {
		return err
	}
	e.push(v)
	e.push(v)
	return nil
}

func (e *Evaluator) exch() error {
	b, err := e.pop("exch")
	if err != nil {
		return err
	}
	a, err := e.pop("exch")
	if err != nil {
		return err
	}
	e.push(b)
	e.push(a)
	return nil
}

func (e *Evaluator) imp() error {
	sz, err := e.popNumeric("imp")
	if err != nil {
		return err
	}
	sy, err := e.popNumeric("imp")
	if err != nil {
		return err
	}
	sx, err := e.popNumeric("imp")
	if err != nil {
		return err
	}
	filename, err := e.popString("imp")
	if err != nil {
		return err
	}
	e.result = Result{Kind: ResultImport, Filename: filename, ScaleX: sx, ScaleY: sy, ScaleZ: sz}
	return nil
}

func (e *Evaluator) egms() error {
	name, err := e.popString("egms")
	if err != nil {
		return err
	}
	e.result = Result{Kind: ResultEgmsRef, ObjectName: name}
	return nil
}

func (e *Evaluator) clsref() error {
	className, err := e.popString("clsref")
	if err != nil {
		return err
	}
	var reversed []float64
	for len(e.stack) > 0 && e.stack[len(e.stack)-1].IsNumeric() {
		v, _ := e.pop("clsref")
		f, _ := v.Float()
		reversed = append(reversed, f)
	}
	params := make([]float64, len(reversed))
	for i, v := range reversed {
		params[len(reversed)-1-i] = v
	}
	e.result = Result{Kind: ResultClassRef, ClassName: className, Params: params}
	return nil
}
