package domain

// EncryptedPackage is the only representation of vault contents that ever leaves
// the client. All three fields are standard base64.
type EncryptedPackage struct {
	// EncryptedData is the AES-GCM ciphertext of the JSON-encoded vault body, tag included.
	EncryptedData string `json:"encryptedData"`
	// Salt is the 16-byte PBKDF2 salt the key was derived with.
	Salt string `json:"salt"`
	// IV is the 12-byte nonce used for this encryption.
	IV string `json:"iv"`
}
