package ui

// prompt is a single-line input shown in the status bar, used for file
// paths and cell values. Enter confirms, Escape cancels.
type prompt struct {
	active bool
	label  string
	input  []rune
	cursor int
	done   func(value string)
}

// open starts a prompt with an initial value and a completion callback.
func (p *prompt) open(label, initial string, done func(string)) {
	p.active = true
	p.label = label
	p.input = []rune(initial)
	p.cursor = len(p.input)
	p.done = done
}

// confirm finishes the prompt and invokes the callback.
func (p *prompt) confirm() {
	done := p.done
	value := string(p.input)
	p.close()
	if done != nil {
		done(value)
	}
}

func (p *prompt) close() {
	p.active = false
	p.label = ""
	p.input = nil
	p.cursor = 0
	p.done = nil
}

func (p *prompt) insert(r rune) {
	out := make([]rune, 0, len(p.input)+1)
	out = append(out, p.input[:p.cursor]...)
	out = append(out, r)
	out = append(out, p.input[p.cursor:]...)
	p.input = out
	p.cursor++
}

func (p *prompt) backspace() {
	if p.cursor == 0 {
		return
	}
	p.input = append(p.input[:p.cursor-1], p.input[p.cursor:]...)
	p.cursor--
}

func (p *prompt) left() {
	if p.cursor > 0 {
		p.cursor--
	}
}

func (p *prompt) right() {
	if p.cursor < len(p.input) {
		p.cursor++
	}
}
