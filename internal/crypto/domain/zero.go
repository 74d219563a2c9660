package domain

// Zero overwrites b with zeros. Used on derived keys and decrypted plaintext buffers.
func Zero(b []byte) {
	clear(b)
}
