package archive

import (
	"bytes"

	"filippo.io/age"
	"filippo.io/age/armor"

	"ghvault/internal/archive/interfaces"
	"ghvault/internal/providers"
	"ghvault/internal/structures"
)

// DefaultRecipientKey is used when no recipient is configured. It is the
// maintainer's archive key; artifacts encrypted to it are only readable
// by the maintainer, which matches the original single-operator setup.
const DefaultRecipientKey = "age188pjj8tjrcgerm53magz2h8wzanjm92xjz3clkjl5zjlvsj5w3cqhfgfl5"

// AgeEncryptor seals a day's plaintext to a single age x25519 recipient.
// The ciphertext is ASCII-armored so the committed artifact stays
// text-safe in git.
type AgeEncryptor struct {
	recipient age.Recipient
	logger    providers.Logger
}

// NewAgeEncryptor resolves the recipient from configuration (or the
// GHVAULT_RECIPIENT_KEY environment override bound into it). A missing
// key logs a warning and falls back to the default recipient; an
// unparsable key is an immediate EncryptionError.
func NewAgeEncryptor(conf *structures.Config, logger providers.Logger) (interfaces.EncryptorInterface, error) {
	key := conf.Encryption.RecipientKey
	if key == "" {
		logger.Warnf(providers.TypeApp, "No recipient key provided. Using default key.")
		key = DefaultRecipientKey
	}

	recipient, err := age.ParseX25519Recipient(key)
	if err != nil {
		return nil, &EncryptionError{Op: "parsing recipient key", Err: err}
	}

	return &AgeEncryptor{recipient: recipient, logger: logger}, nil
}

func (e *AgeEncryptor) Encrypt(plaintext []byte) ([]byte, error) {
	var buf bytes.Buffer

	armorWriter := armor.NewWriter(&buf)
	encryptWriter, err := age.Encrypt(armorWriter, e.recipient)
	if err != nil {
		return nil, &EncryptionError{Op: "creating encryptor", Err: err}
	}
	if _, err := encryptWriter.Write(plaintext); err != nil {
		return nil, &EncryptionError{Op: "writing plaintext", Err: err}
	}
	if err := encryptWriter.Close(); err != nil {
		return nil, &EncryptionError{Op: "finalizing ciphertext", Err: err}
	}
	if err := armorWriter.Close(); err != nil {
		return nil, &EncryptionError{Op: "finalizing armor", Err: err}
	}

	return buf.Bytes(), nil
}
