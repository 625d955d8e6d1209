package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
)

type Inputs struct {
	// TargetIPs is the environment-configured default IP list,
	// overridden by the input file and the --ips flag.
	TargetIPs []string
	InputFile *string
}

func (i *Inputs) setDefaults() {
	i.TargetIPs = gosettings.DefaultSlice(i.TargetIPs, []string{})
	i.InputFile = gosettings.DefaultPointer(i.InputFile, "")
}

var ErrInputFileNotFound = errors.New("input file does not exist")

func (i Inputs) Validate() (err error) {
	if *i.InputFile != "" {
		_, err = os.Stat(*i.InputFile)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInputFileNotFound, *i.InputFile)
		}
	}
	return nil
}

func (i Inputs) String() string {
	return i.toLinesNode().String()
}

func (i Inputs) toLinesNode() *gotree.Node {
	node := gotree.New("Inputs")
	if *i.InputFile != "" {
		node.Appendf("Input file: %s", *i.InputFile)
	}
	if len(i.TargetIPs) > 0 {
		childNode := node.Appendf("Target IPs")
		for _, ip := range i.TargetIPs {
			childNode.Appendf(ip)
		}
	}
	return node
}

func (i *Inputs) read(r *reader.Reader) {
	i.TargetIPs = r.CSV("TARGET_IPS")
	i.InputFile = r.Get("INPUT_FILE", reader.ForceLowercase(false))
}
