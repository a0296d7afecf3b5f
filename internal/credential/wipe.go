package credential

// wipe overwrites b with zeros so plaintext secrets and derived keys do not
// linger in memory after use. A nil slice is a no-op.
func wipe(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
