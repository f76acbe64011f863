// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package internal

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/hashgraph/hedera-sdk-go-exec/pkg/hedera"
)

// AccountIDFlag is a flag whose value is an account ID.
type AccountIDFlag struct {
	Value *hedera.AccountID
}

var _ pflag.Value = AccountIDFlag{}

func (AccountIDFlag) Type() string { return "account-id" }

func (f AccountIDFlag) String() string {
	if f.Value == nil {
		return ""
	}
	return f.Value.String()
}

func (f AccountIDFlag) Set(s string) error {
	id, err := hedera.ParseAccountID(s)
	if err != nil {
		return err
	}
	*f.Value = id
	return nil
}

// AccountIDSliceFlag is a repeatable flag whose values are account IDs.
// Values may also be separated by commas.
type AccountIDSliceFlag []hedera.AccountID

var _ pflag.Value = (*AccountIDSliceFlag)(nil)

func (*AccountIDSliceFlag) Type() string { return "account-ids" }

func (f *AccountIDSliceFlag) String() string {
	var s []string
	for _, id := range *f {
		s = append(s, id.String())
	}
	return strings.Join(s, ",")
}

func (f *AccountIDSliceFlag) Set(s string) error {
	for _, s := range strings.Split(s, ",") {
		id, err := hedera.ParseAccountID(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		*f = append(*f, id)
	}
	return nil
}
