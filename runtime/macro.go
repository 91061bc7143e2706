package runtime

import (
	"strings"
	"unicode"

	"github.com/tw1x/tw1x/ast"
	"github.com/tw1x/tw1x/parser"
)

// renderer walks a passage body and executes the macros it contains.
// It is a small recursive-descent walker: `<<if>>` branches are
// located structurally (findBranchEnd) before any of them are rendered,
// so a suppressed branch's macros are never evaluated, only skipped over
// — the streaming emitting/skipping behavior is achieved structurally
// rather than via an explicit state flag.
type renderer struct {
	passages map[string]*ast.Passage // keyed by lowercased name
	store    *Store
	eval     *Evaluator
	stack    []string // display cycle-detection stack, case-insensitive
	links    *[]ast.Link
	issues   *[]Issue
	dirty    map[string]struct{} // canonical store keys written during this render
}

func newRenderer(passages map[string]*ast.Passage, store *Store, eval *Evaluator, issues *[]Issue) *renderer {
	byLower := make(map[string]*ast.Passage, len(passages))
	for _, p := range passages {
		byLower[strings.ToLower(p.Name)] = p
	}
	return &renderer{
		passages: byLower,
		store:    store,
		eval:     eval,
		links:    &[]ast.Link{},
		issues:   issues,
		dirty:    map[string]struct{}{},
	}
}

// renderSpan is the main streaming loop: it passes literal text through
// and dispatches on macro and link marker syntax.
func (r *renderer) renderSpan(text string) string {
	rs := []rune(text)
	var out strings.Builder
	i := 0
	for i < len(rs) {
		switch {
		case hasPrefixAt(rs, i, "<<"):
			closeIdx := indexOfFrom(rs, i+2, ">>")
			if closeIdx < 0 {
				addIssue(r.issues, UnmatchedMacroError, i, "unterminated macro tag")
				out.WriteString(string(rs[i:]))
				i = len(rs)
				continue
			}
			tag := strings.TrimSpace(string(rs[i+2 : closeIdx]))
			after := closeIdx + 2
			name, args := splitMacroName(tag)
			switch strings.ToLower(name) {
			case "if":
				rendered, next := r.renderIf(rs, after, args)
				out.WriteString(rendered)
				i = next
			case "elseif", "else", "endif":
				addIssue(r.issues, UnmatchedMacroError, i, "stray <<%s>>", name)
				i = after
			case "nobr":
				rendered, next := r.renderNobr(rs, after)
				out.WriteString(rendered)
				i = next
			case "endnobr":
				addIssue(r.issues, UnmatchedMacroError, i, "stray <<endnobr>>")
				i = after
			case "set":
				r.execSet(args, i)
				i = after
			case "print":
				out.WriteString(r.execPrint(args))
				i = after
			case "display":
				out.WriteString(r.execDisplay(args))
				i = after
			default:
				out.WriteString(string(rs[i:after]))
				i = after
			}
		case hasPrefixAt(rs, i, "[img["):
			end := indexOfFrom(rs, i+5, "]]")
			if end < 0 {
				out.WriteString(string(rs[i:]))
				i = len(rs)
				continue
			}
			i = end + 2
		case hasPrefixAt(rs, i, "[["):
			next, link, ok := r.parseLink(rs, i)
			if !ok {
				out.WriteRune(rs[i])
				i++
				continue
			}
			out.WriteString(link.Display)
			*r.links = append(*r.links, link)
			i = next
		default:
			out.WriteRune(rs[i])
			i++
		}
	}
	return out.String()
}

// renderIf handles a `<<if EXPR>>` already consumed up through its
// closing `>>`, at position pos. It returns the rendered text of whichever
// branch is selected (or "" if none is) and the position just after the
// matching `<<endif>>`.
func (r *renderer) renderIf(rs []rune, pos int, condArgs string) (string, int) {
	cond := r.eval.EvaluateCondition(condArgs, r.issues)
	matched := false
	var result string

	branchEnd, termKind, termArgs, after, implicit := findBranchEnd(rs, pos)
	if implicit {
		addIssue(r.issues, UnmatchedMacroError, pos, "unterminated <<if>>")
	}
	if cond {
		result = r.renderSpan(string(rs[pos:branchEnd]))
		matched = true
	}
	pos = after

	for termKind != "endif" {
		switch termKind {
		case "elseif":
			branchEnd, nextKind, nextArgs, nextAfter, implicit := findBranchEnd(rs, pos)
			if implicit {
				addIssue(r.issues, UnmatchedMacroError, pos, "unterminated <<if>>")
			}
			if !matched && r.eval.EvaluateCondition(termArgs, r.issues) {
				result = r.renderSpan(string(rs[pos:branchEnd]))
				matched = true
			}
			pos, termKind, termArgs, after = nextAfter, nextKind, nextArgs, nextAfter
		case "else":
			branchEnd, nextKind, nextArgs, nextAfter, implicit := findBranchEnd(rs, pos)
			if implicit {
				addIssue(r.issues, UnmatchedMacroError, pos, "unterminated <<if>>")
			}
			if !matched {
				result = r.renderSpan(string(rs[pos:branchEnd]))
				matched = true
			}
			pos, termKind, termArgs, after = nextAfter, nextKind, nextArgs, nextAfter
		}
	}
	return result, after
}

// findBranchEnd scans forward from pos, tracking nested <<if>>/<<endif>>
// depth, and returns the extent of the current branch: end is the index
// where the terminating tag begins, termKind is "elseif"/"else"/"endif",
// termArgs is the elseif condition text (if any), and after is the index
// just past the terminating tag's `>>`. implicit is true if no matching
// tag was found before end of text (an unterminated `<<if>>` renders the
// live branch up to end-of-passage as though `<<endif>>` occurred there).
func findBranchEnd(rs []rune, pos int) (end int, termKind, termArgs string, after int, implicit bool) {
	depth := 0
	i := pos
	for i < len(rs) {
		if !hasPrefixAt(rs, i, "<<") {
			i++
			continue
		}
		closeIdx := indexOfFrom(rs, i+2, ">>")
		if closeIdx < 0 {
			break
		}
		tag := strings.TrimSpace(string(rs[i+2 : closeIdx]))
		name, args := splitMacroName(tag)
		lname := strings.ToLower(name)
		switch {
		case lname == "if":
			depth++
			i = closeIdx + 2
		case lname == "endif":
			if depth == 0 {
				return i, "endif", "", closeIdx + 2, false
			}
			depth--
			i = closeIdx + 2
		case depth == 0 && lname == "elseif":
			return i, "elseif", args, closeIdx + 2, false
		case depth == 0 && lname == "else":
			return i, "else", "", closeIdx + 2, false
		default:
			i = closeIdx + 2
		}
	}
	return len(rs), "endif", "", len(rs), true
}

// skipIfStatement scans forward from pos (right after an `<<if ...>>`
// opening tag) past the entire if/elseif/else/endif statement, ignoring
// branch structure entirely, for special-passage extraction where
// conditional assignments are not extracted at all.
func skipIfStatement(rs []rune, pos int) int {
	depth := 0
	i := pos
	for i < len(rs) {
		if !hasPrefixAt(rs, i, "<<") {
			i++
			continue
		}
		closeIdx := indexOfFrom(rs, i+2, ">>")
		if closeIdx < 0 {
			return len(rs)
		}
		tag := strings.TrimSpace(string(rs[i+2 : closeIdx]))
		name, _ := splitMacroName(tag)
		switch strings.ToLower(name) {
		case "if":
			depth++
			i = closeIdx + 2
		case "endif":
			if depth == 0 {
				return closeIdx + 2
			}
			depth--
			i = closeIdx + 2
		default:
			i = closeIdx + 2
		}
	}
	return len(rs)
}

func (r *renderer) renderNobr(rs []rune, pos int) (string, int) {
	depth := 0
	i := pos
	start := pos
	for i < len(rs) {
		if !hasPrefixAt(rs, i, "<<") {
			i++
			continue
		}
		closeIdx := indexOfFrom(rs, i+2, ">>")
		if closeIdx < 0 {
			break
		}
		tag := strings.TrimSpace(string(rs[i+2 : closeIdx]))
		name, _ := splitMacroName(tag)
		switch strings.ToLower(name) {
		case "nobr":
			depth++
			i = closeIdx + 2
		case "endnobr":
			if depth == 0 {
				inner := r.renderSpan(string(rs[start:i]))
				return collapseWhitespace(inner), closeIdx + 2
			}
			depth--
			i = closeIdx + 2
		default:
			i = closeIdx + 2
		}
	}
	addIssue(r.issues, UnmatchedMacroError, pos, "unterminated <<nobr>>")
	inner := r.renderSpan(string(rs[start:]))
	return collapseWhitespace(inner), len(rs)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (r *renderer) execSet(args string, pos int) {
	varName, op, exprText, ok := splitAssignClause(args)
	if !ok {
		addIssue(r.issues, StructuralError, pos, "malformed <<set %s>>", args)
		return
	}
	node, err := parser.ParseExpr(exprText)
	if err != nil {
		addIssue(r.issues, ExpressionError, pos, "%v", err)
		return
	}
	v := r.eval.Eval(node, r.issues)
	if compoundOp, isCompound := compoundArith(op); isCompound {
		cur := r.store.Get(varName)
		v = r.eval.ApplyArith(compoundOp, cur, v, r.issues)
	}
	r.store.Set(varName, v)
	r.dirty[r.store.KeyFor(varName)] = struct{}{}
}

func compoundArith(op string) (string, bool) {
	switch op {
	case "+=":
		return "+", true
	case "-=":
		return "-", true
	case "*=":
		return "*", true
	case "/=":
		return "/", true
	}
	return "", false
}

// splitAssignClause parses `$V OP REST` shared by `<<set>>` macro bodies
// and link setter clauses. OP is one of =, to, +=, -=, *=, /=.
func splitAssignClause(args string) (varName, op, rest string, ok bool) {
	args = strings.TrimSpace(args)
	if !strings.HasPrefix(args, "$") {
		return "", "", "", false
	}
	body := args[1:]
	i := 0
	for i < len(body) && isIdentRune(rune(body[i])) {
		i++
	}
	if i == 0 {
		return "", "", "", false
	}
	varName = body[:i]
	tail := strings.TrimSpace(body[i:])

	for _, compound := range []string{"+=", "-=", "*=", "/="} {
		if strings.HasPrefix(tail, compound) {
			return varName, compound, strings.TrimSpace(tail[len(compound):]), true
		}
	}
	if strings.HasPrefix(tail, "=") {
		return varName, "=", strings.TrimSpace(tail[1:]), true
	}
	if len(tail) >= 2 && strings.EqualFold(tail[:2], "to") && (len(tail) == 2 || unicode.IsSpace(rune(tail[2]))) {
		return varName, "to", strings.TrimSpace(tail[2:]), true
	}
	return "", "", "", false
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (r *renderer) execPrint(args string) string {
	return r.eval.EvaluateExpression(args, r.issues).String()
}

func (r *renderer) execDisplay(args string) string {
	name := stripQuotes(strings.TrimSpace(args))
	lower := strings.ToLower(name)

	for _, onStack := range r.stack {
		if strings.EqualFold(onStack, name) {
			addIssue(r.issues, CycleError, 0, "display cycle revisits %q", name)
			return ""
		}
	}

	passage, ok := r.passages[lower]
	if !ok {
		addIssue(r.issues, MissingPassageError, 0, "display target %q not found", name)
		return "[missing: " + name + "]"
	}

	r.stack = append(r.stack, name)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()
	return r.renderSpan(passage.RawBody)
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// parseLink recognizes `[[TARGET]]`, `[[DISPLAY|TARGET]]`, and either form
// followed by `[$V OP VAL]` setter clauses.
func (r *renderer) parseLink(rs []rune, i int) (next int, link ast.Link, ok bool) {
	contentEnd := indexOfRuneFrom(rs, i+2, ']')
	if contentEnd < 0 {
		return i, ast.Link{}, false
	}
	content := string(rs[i+2 : contentEnd])
	display, target := splitOnFirstPipe(content)

	pos := contentEnd + 1
	var setters []ast.Setter
	for pos < len(rs) && rs[pos] == '[' {
		end := indexOfRuneFrom(rs, pos+1, ']')
		if end < 0 {
			break
		}
		setterText := string(rs[pos+1 : end])
		if setter, ok := parseSetterClause(setterText); ok {
			setters = append(setters, setter)
		}
		pos = end + 1
	}

	if pos < len(rs) && rs[pos] == ']' {
		pos++
	} else {
		addIssue(r.issues, StructuralError, i, "malformed link marker")
	}

	return pos, ast.Link{Display: display, Target: target, Setters: setters}, true
}

func splitOnFirstPipe(content string) (display, target string) {
	idx := strings.IndexByte(content, '|')
	if idx < 0 {
		return content, content
	}
	return content[:idx], content[idx+1:]
}

func parseSetterClause(text string) (ast.Setter, bool) {
	varName, op, rest, ok := splitAssignClause(text)
	if !ok {
		return ast.Setter{}, false
	}
	return ast.Setter{Variable: varName, Op: op, Value: rest}, true
}

func splitMacroName(tag string) (name, args string) {
	idx := strings.IndexFunc(tag, unicode.IsSpace)
	if idx < 0 {
		return tag, ""
	}
	return tag[:idx], strings.TrimSpace(tag[idx+1:])
}

func hasPrefixAt(rs []rune, i int, prefix string) bool {
	pr := []rune(prefix)
	if i+len(pr) > len(rs) {
		return false
	}
	for k, r := range pr {
		if rs[i+k] != r {
			return false
		}
	}
	return true
}

func indexOfFrom(rs []rune, from int, needle string) int {
	nr := []rune(needle)
	for i := from; i+len(nr) <= len(rs); i++ {
		match := true
		for k, r := range nr {
			if rs[i+k] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func indexOfRuneFrom(rs []rune, from int, needle rune) int {
	for i := from; i < len(rs); i++ {
		if rs[i] == needle {
			return i
		}
	}
	return -1
}
