package currency

// Input is a text field with currency masking: formatted while idle, plain
// while being edited.
type Input struct {
	value    string
	focused  bool
	onUpdate func(string)
}

// NewInput formats initial right away. onUpdate, if set, is the handler that
// runs before reformatting on every model update.
func NewInput(initial string, onUpdate func(string)) *Input {
	in := &Input{value: initial, onUpdate: onUpdate}
	in.reformat()
	return in
}

func (in *Input) Value() string { return in.value }

func (in *Input) Focused() bool { return in.focused }

// Edit replaces the displayed text as a keystroke would.
func (in *Input) Edit(v string) {
	in.value = v
}

func (in *Input) Focus() {
	in.focused = true
	if plain, ok := Plain(in.value); ok {
		in.value = plain
	}
}

func (in *Input) Blur() {
	in.focused = false
	in.reformat()
}

// SetModel applies a model value change.
func (in *Input) SetModel(v string) {
	in.value = v
	if in.onUpdate != nil {
		in.onUpdate(v)
	}
	if !in.focused {
		in.reformat()
	}
}

// Rerender reapplies blur formatting unless the field has focus.
func (in *Input) Rerender() {
	if in.focused {
		return
	}
	in.Blur()
}

func (in *Input) reformat() {
	if formatted := Format(in.value); formatted != in.value {
		in.value = formatted
	}
}
