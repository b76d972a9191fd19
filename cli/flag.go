package cli

import (
	"strconv"

	"github.com/morikuni/failure/v2"
	"github.com/spf13/pflag"

	"github.com/umcp/umcp/config"
)

// portFlag is a pflag.Value that only accepts ports the bridge could
// actually bind. IsSet distinguishes "left at default" from "explicitly
// passed the default value".
type portFlag struct {
	IsSet bool
	Value int
}

// String implements pflag.Value.
func (p *portFlag) String() string {
	if !p.IsSet {
		return ""
	}
	return strconv.Itoa(p.Value)
}

func (p *portFlag) Set(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return failure.Translate(err, InvalidPort, failure.Message("Port must be a number"))
	}
	if n < config.MinPort || n > config.MaxPort {
		return failure.New(InvalidPort,
			failure.Message("Port out of range"),
			failure.Context{"port": value},
		)
	}
	p.Value = n
	p.IsSet = true
	return nil
}

func (p *portFlag) Type() string {
	return "port"
}

var _ pflag.Value = &portFlag{}
