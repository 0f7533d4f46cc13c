/*
SPDX-License-Identifier: GPL-3.0-or-later

Copyright (C) 2026 The Groundwork Authors

This file is part of Groundwork.

Groundwork is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Groundwork is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Groundwork. If not, see https://www.gnu.org/licenses/.
*/

package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// Checksum computes the hex-encoded SHA256 digest of the file at path.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("artifact: opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("artifact: hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyChecksum compares the file's SHA256 digest against wantHex.
func VerifyChecksum(path, wantHex string) error {
	got, err := Checksum(path)
	if err != nil {
		return err
	}
	if !strings.EqualFold(got, wantHex) {
		return fmt.Errorf("artifact: checksum mismatch for %s: want %s, got %s", path, wantHex, got)
	}
	return nil
}

// Keyring holds trusted PGP keys for signature verification.
type Keyring struct {
	entities openpgp.EntityList
}

// LoadKeyringFile reads a keyring from disk, trying armored format
// first and falling back to binary.
func LoadKeyringFile(path string) (*Keyring, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("artifact: opening keyring %s: %w", path, err)
	}
	defer f.Close()

	entities, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		if _, seekErr := f.Seek(0, io.SeekStart); seekErr != nil {
			return nil, fmt.Errorf("artifact: rewinding keyring: %w", seekErr)
		}
		entities, err = openpgp.ReadKeyRing(f)
		if err != nil {
			return nil, fmt.Errorf("artifact: reading keyring %s: %w", path, err)
		}
	}
	if len(entities) == 0 {
		return nil, fmt.Errorf("artifact: no keys in keyring %s", path)
	}
	return &Keyring{entities: entities}, nil
}

// Len returns the number of keys in the keyring.
func (k *Keyring) Len() int { return len(k.entities) }

// VerifySignature checks a detached signature for the file at path.
// Armored signatures are tried first, then binary.
func (k *Keyring) VerifySignature(path, sigPath string) error {
	if len(k.entities) == 0 {
		return fmt.Errorf("artifact: empty keyring")
	}

	target, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("artifact: opening %s: %w", path, err)
	}
	defer target.Close()

	sig, err := os.Open(sigPath)
	if err != nil {
		return fmt.Errorf("artifact: opening signature %s: %w", sigPath, err)
	}
	defer sig.Close()

	if _, err := openpgp.CheckArmoredDetachedSignature(k.entities, target, sig, nil); err == nil {
		return nil
	}

	if _, err := target.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("artifact: rewinding %s: %w", path, err)
	}
	if _, err := sig.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("artifact: rewinding signature: %w", err)
	}

	if _, err := openpgp.CheckDetachedSignature(k.entities, target, sig, nil); err != nil {
		return fmt.Errorf("artifact: signature verification failed for %s: %w", path, err)
	}
	return nil
}
