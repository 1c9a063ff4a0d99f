package main

import (
	"fmt"
	"os"
	"reflect"
	"testing"

	"github.com/achilleasa/polaris-cpu/cmd"
)

func TestPositionalSamplesPerPixel(t *testing.T) {
	app := newApp()

	specs := []struct {
		args    []string
		expArgs []string
	}{
		{[]string{"polaris-cpu"}, []string{"polaris-cpu"}},
		{[]string{"polaris-cpu", "16"}, []string{"polaris-cpu", "16"}},
		{[]string{"polaris-cpu", "-4"}, []string{"polaris-cpu", "--", "-4"}},
		{[]string{"polaris-cpu", "--width", "8", "-4"}, []string{"polaris-cpu", "--width", "8", "--", "-4"}},
		{[]string{"polaris-cpu", "-v", "-4"}, []string{"polaris-cpu", "-v", "--", "-4"}},
		{[]string{"polaris-cpu", "-o", "out.ppm", "-4"}, []string{"polaris-cpu", "-o", "out.ppm", "--", "-4"}},
		{[]string{"polaris-cpu", "--seed", "-4"}, []string{"polaris-cpu", "--seed", "-4"}},
		{[]string{"polaris-cpu", "--seed=-4"}, []string{"polaris-cpu", "--seed=-4"}},
		{[]string{"polaris-cpu", "--", "-4"}, []string{"polaris-cpu", "--", "-4"}},
	}

	for index, s := range specs {
		if args := positionalSamplesPerPixel(app, s.args); !reflect.DeepEqual(args, s.expArgs) {
			t.Errorf("[spec %d] expected args %q; got %q", index, s.expArgs, args)
		}
	}
}

func TestRenderWithNegativeSamplesPerPixel(t *testing.T) {
	wd, wdErr := os.Getwd()
	if wdErr != nil {
		t.Fatal(wdErr)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	err := run([]string{"polaris-cpu", "--width", "4", "--height", "4", "--workers", "2", "--seed", "1", "-4"})
	if err != nil {
		t.Fatal(err)
	}

	imgFile := fmt.Sprintf("SPP%d.ppm", cmd.DefaultSamplesPerPixel)
	data, err := os.ReadFile(imgFile)
	if err != nil {
		t.Fatalf("expected frame to be written to %s; got %v", imgFile, err)
	}
	if expLen := len("P6\n4 4\n255\n") + 3*4*4; len(data) != expLen {
		t.Fatalf("expected %d bytes in %s; got %d", expLen, imgFile, len(data))
	}
}
