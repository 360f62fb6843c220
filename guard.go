package vsim

// checkWidths returns an *OverWidthError for the first input holding a value
// wider than its declaration.
//
func (c *Circuit) checkWidths() error {
	for n, sig := range c.st.sigs {
		if sig.Kind != Input {
			continue
		}
		if v := c.st.v[n]; v&^c.st.masks[n] != 0 {
			return &OverWidthError{Signal: sig.Name, Width: sig.Width, Value: v}
		}
	}
	return nil
}
