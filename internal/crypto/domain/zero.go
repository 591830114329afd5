package domain

// Zero overwrites b with zeros. Used for derived keys, plaintext buffers and
// in-memory master passwords.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
