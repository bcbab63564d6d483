package ui

import "charm.land/bubbles/v2/key"

type keyMap struct {
	NextTab     key.Binding
	ExamplesTab key.Binding
	TestTab     key.Binding
	PrevExample key.Binding
	NextExample key.Binding
	PrevPuzzle  key.Binding
	NextPuzzle  key.Binding
	Back        key.Binding
	Forward     key.Binding
	Stamp       key.Binding
	CopyInput   key.Binding
	CopyScaled  key.Binding
	Clear       key.Binding
	Submit      key.Binding
	Reveal      key.Binding
	ScrollLeft  key.Binding
	ScrollRight key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch tab")),
		ExamplesTab: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "examples")),
		TestTab:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "test")),
		PrevExample: key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "prev example")),
		NextExample: key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next example")),
		PrevPuzzle:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev puzzle")),
		NextPuzzle:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next puzzle")),
		Back:        key.NewBinding(key.WithKeys("["), key.WithHelp("[", "back")),
		Forward:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "forward")),
		Stamp:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stamp")),
		CopyInput:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy input")),
		CopyScaled:  key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "scaled copy")),
		Clear:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear")),
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Reveal:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reveal")),
		ScrollLeft:  key.NewBinding(key.WithKeys("<", ","), key.WithHelp("<", "scroll left")),
		ScrollRight: key.NewBinding(key.WithKeys(">", "."), key.WithHelp(">", "scroll right")),
		ScrollUp:    key.NewBinding(key.WithKeys("k", "pgup"), key.WithHelp("k", "scroll up")),
		ScrollDown:  key.NewBinding(key.WithKeys("j", "pgdown"), key.WithHelp("j", "scroll down")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.NextExample, k.NextPuzzle, k.Stamp, k.CopyInput, k.Submit, k.Reveal, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.ExamplesTab, k.TestTab, k.Help, k.Quit},
		{k.PrevExample, k.NextExample, k.PrevPuzzle, k.NextPuzzle, k.Back, k.Forward},
		{k.Stamp, k.CopyInput, k.CopyScaled, k.Clear, k.Submit, k.Reveal},
		{k.ScrollLeft, k.ScrollRight, k.ScrollUp, k.ScrollDown},
	}
}
