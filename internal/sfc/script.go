package sfc

import (
	"regexp"
	"strings"
)

var (
	vueImportPattern    = regexp.MustCompile(`import\s+([A-Za-z_$][\w$]*)\s+from\s+['"]([^'"]+\.vue)['"]`)
	definePropsPattern  = regexp.MustCompile(`\bdefineProps\s*(<|\()`)
	optionsPropsPattern = regexp.MustCompile(`\bprops\s*:\s*([{\[])`)
)

// Import is a default import of another component document.
type Import struct {
	Name   string
	Source string
}

// ImportedComponents returns the default imports of .vue documents in
// script, in order of appearance.
func ImportedComponents(script string) []Import {
	script = stripComments(script)

	var imports []Import
	seen := make(map[string]bool)
	for _, m := range vueImportPattern.FindAllStringSubmatch(script, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		imports = append(imports, Import{Name: m[1], Source: m[2]})
	}
	return imports
}

// ImportedComponents returns the components imported by the document's
// script blocks.
func (d *Descriptor) ImportedComponents() []Import {
	return ImportedComponents(d.ScriptContent())
}

// DeclaredProps returns the prop names declared in script, either through
// defineProps (runtime or type-based) or through an options API props field.
// Names are returned as written, de-duplicated, in order of appearance.
func DeclaredProps(script string) []string {
	script = stripComments(script)

	var props []string
	seen := make(map[string]bool)
	add := func(names []string) {
		for _, name := range names {
			if name != "" && !seen[name] {
				seen[name] = true
				props = append(props, name)
			}
		}
	}

	if loc := definePropsPattern.FindStringSubmatchIndex(script); loc != nil {
		open := loc[2]
		if script[open] == '<' {
			if end := matchAngle(script, open); end > open {
				add(typeProps(script, strings.TrimSpace(script[open+1:end])))
			}
		} else {
			add(runtimeProps(script, open))
		}
		return props
	}

	if loc := optionsPropsPattern.FindStringSubmatchIndex(script); loc != nil {
		open := loc[2]
		end := matchBracket(script, open)
		if end > open {
			add(declarationProps(script[open : end+1]))
		}
	}

	return props
}

// DeclaredProps returns the props declared by the document's script blocks.
func (d *Descriptor) DeclaredProps() []string {
	return DeclaredProps(d.ScriptContent())
}

// runtimeProps reads the argument of defineProps( at open.
func runtimeProps(script string, open int) []string {
	end := matchBracket(script, open)
	if end < 0 {
		return nil
	}
	arg := strings.TrimSpace(script[open+1 : end])
	if arg == "" {
		return nil
	}
	if arg[0] == '{' || arg[0] == '[' {
		return declarationProps(arg)
	}
	return nil
}

// typeProps reads a type argument: either a type literal or the name of an
// interface or type alias declared in the same script.
func typeProps(script, typeArg string) []string {
	if strings.HasPrefix(typeArg, "{") {
		return declarationProps(typeArg)
	}
	if !isIdentifier(typeArg) {
		return nil
	}

	decl := regexp.MustCompile(`\b(?:interface\s+` + regexp.QuoteMeta(typeArg) +
		`\b[^{]*|type\s+` + regexp.QuoteMeta(typeArg) + `\s*=\s*)\{`)
	loc := decl.FindStringIndex(script)
	if loc == nil {
		return nil
	}
	open := loc[1] - 1
	end := matchBracket(script, open)
	if end < 0 {
		return nil
	}
	return declarationProps(script[open : end+1])
}

// declarationProps reads the keys of an object or type literal, or the
// string entries of an array literal.
func declarationProps(lit string) []string {
	if len(lit) < 2 {
		return nil
	}
	body := lit[1 : len(lit)-1]

	var names []string
	for _, member := range splitTopLevel(body) {
		member = strings.TrimSpace(member)
		if member == "" || strings.HasPrefix(member, "...") {
			continue
		}
		if lit[0] == '[' {
			if name, _, ok := readQuoted(member); ok {
				names = append(names, name)
			}
			continue
		}
		if name, ok := memberKey(member); ok {
			names = append(names, name)
		}
	}
	return names
}

// memberKey returns the key of an object or type member written as
// key: value, key?: value or key(...).
func memberKey(member string) (string, bool) {
	member = strings.TrimPrefix(member, "readonly ")
	member = strings.TrimSpace(member)

	var key, rest string
	if name, n, ok := readQuoted(member); ok {
		key, rest = name, member[n:]
	} else {
		i := 0
		for i < len(member) && isIdentByte(member[i]) {
			i++
		}
		key, rest = member[:i], member[i:]
	}
	if key == "" {
		return "", false
	}

	rest = strings.TrimLeft(rest, " \t\r\n")
	rest = strings.TrimPrefix(rest, "?")
	rest = strings.TrimLeft(rest, " \t\r\n")
	if strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, "(") {
		return key, true
	}
	return "", false
}

// splitTopLevel splits body on commas, semicolons and newlines that are not
// nested in brackets or strings.
func splitTopLevel(body string) []string {
	var parts []string
	depth, angles := 0, 0
	last := 0
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch c {
		case '"', '\'', '`':
			i = skipString(body, i)
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		case '<':
			if i > 0 && isIdentByte(body[i-1]) {
				angles++
			}
		case '>':
			if angles > 0 && body[i-1] != '=' {
				angles--
			}
		case ',', ';', '\n':
			if depth == 0 && angles == 0 {
				parts = append(parts, body[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, body[last:])
}

// matchBracket returns the index of the bracket closing the one at open, or
// -1 when it is unbalanced.
func matchBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '"', '\'', '`':
			i = skipString(s, i)
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// matchAngle returns the index of the > closing the type argument list at
// open. Angle brackets nested inside other brackets and arrow tokens are
// ignored.
func matchAngle(s string, open int) int {
	angles := 0
	nested := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '"', '\'', '`':
			i = skipString(s, i)
		case '{', '[', '(':
			nested++
		case '}', ']', ')':
			nested--
		case '<':
			if nested == 0 {
				angles++
			}
		case '>':
			if nested != 0 || (i > 0 && s[i-1] == '=') {
				continue
			}
			angles--
			if angles == 0 {
				return i
			}
		}
	}
	return -1
}

// skipString returns the index of the quote closing the string at i.
func skipString(s string, i int) int {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case q:
			return j
		}
	}
	return len(s) - 1
}

func readQuoted(s string) (string, int, bool) {
	if s == "" || (s[0] != '"' && s[0] != '\'') {
		return "", 0, false
	}
	end := strings.IndexByte(s[1:], s[0])
	if end < 0 {
		return "", 0, false
	}
	return s[1 : end+1], end + 2, true
}

// stripComments blanks line and block comments outside of strings.
func stripComments(s string) string {
	out := []byte(s)
	for i := 0; i < len(out); i++ {
		switch out[i] {
		case '"', '\'', '`':
			i = skipString(s, i)
		case '/':
			if i+1 >= len(out) {
				continue
			}
			switch out[i+1] {
			case '/':
				for i < len(out) && out[i] != '\n' {
					out[i] = ' '
					i++
				}
			case '*':
				end := strings.Index(s[i+2:], "*/")
				stop := len(out)
				if end >= 0 {
					stop = i + 2 + end + 2
				}
				for ; i < stop; i++ {
					if out[i] != '\n' {
						out[i] = ' '
					}
				}
				i--
			}
		}
	}
	return string(out)
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isIdentifier(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	return true
}
