// Copyright (c) 2025 The profitbot Authors

package okx

import "fmt"

// Credentials holds the three secrets required by the OKX v5 API. The
// passphrase is chosen by the user when the API key is created; it is
// required on every request alongside the key and secret.
type Credentials struct {
	Key string `json:"key"`

	Secret string `json:"secret"`

	Passphrase string `json:"passphrase"`
}

func (v *Credentials) Check() error {
	if len(v.Key) == 0 {
		return fmt.Errorf("api key cannot be empty")
	}
	if len(v.Secret) == 0 {
		return fmt.Errorf("secret key cannot be empty")
	}
	if len(v.Passphrase) == 0 {
		return fmt.Errorf("passphrase cannot be empty")
	}
	return nil
}
