//go:build mage

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/magefile/mage/mg"
)

// step is one external command of a target. Quiet steps keep their output
// to themselves unless they fail or mage runs with -v.
type step struct {
	name string
	args []string
	dir  string
	live bool
}

func goStep(args ...string) step { return step{name: "go", args: args} }

func (s step) in(dir string) step { s.dir = dir; return s }
func (s step) loud() step         { s.live = true; return s }

func (s step) run() error {
	fmt.Printf("==> %s %s\n", s.name, strings.Join(s.args, " "))
	cmd := exec.Command(s.name, s.args...)
	cmd.Dir = s.dir

	var captured bytes.Buffer
	show := s.live || mg.Verbose()
	cmd.Stdout, cmd.Stderr = &captured, &captured
	if show {
		cmd.Stdout = io.MultiWriter(&captured, os.Stdout)
		cmd.Stderr = io.MultiWriter(&captured, os.Stderr)
	}
	if err := cmd.Run(); err != nil {
		if !show {
			os.Stderr.Write(captured.Bytes())
		}
		return fmt.Errorf("%s %s: %w", s.name, strings.Join(s.args, " "), err)
	}
	return nil
}
