//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

var Default = Build

// Build compiles the hull command into bin/.
func Build() error {
	mg.Deps(Vet)
	return goStep("build", "-o", "bin/hull", "./cmd/hull").loud().run()
}

// Test runs every package's tests.
func Test() error {
	return goStep("test", "./...").loud().run()
}

// Race runs the library tests with the race detector.
func Race() error {
	return goStep("test", "-race", "./pkg/...").loud().run()
}

func Vet() error {
	return goStep("vet", "./...").run()
}

func Tidy() error {
	return goStep("mod", "tidy").run()
}

// Example runs the robot arm elbow sweep.
func Example() error {
	return goStep("run", ".").in("examples/robotarm").loud().run()
}

// Scene checks the robot arm scene with the hull command.
func Scene() error {
	mg.Deps(Build)
	return step{name: "bin/hull", args: []string{"examples/robotarm/arm.lisp"}}.loud().run()
}
