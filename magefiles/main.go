//go:build mage

package main

import (
	"context"
	"fmt"

	"github.com/aexvir/sdkharness"
	"github.com/aexvir/sdkharness/commons"
	"github.com/aexvir/sdkharness/provision"
	"github.com/aexvir/sdkharness/toolchain"
)

// sample project used to exercise the tasks end to end
const testproject = "magefiles/testdata/app"

var h = sdkharness.New(
	sdkharness.WithPreExecFunc(
		func(ctx context.Context) error { // ensure go mod download is run before any task
			return sdkharness.Run(ctx, "go", sdkharness.WithArgs("mod", "download"))
		},
	),
)

// locate the android sdk, installing the command-line tools if needed
func Locate(ctx context.Context) error {
	var result provision.Result

	return h.Execute(
		ctx,
		commons.OnlyOn(
			commons.AndroidSDKLocate(commons.WithResult(&result)),
			toolchain.Darwin, toolchain.Linux,
		),
		func(_ context.Context) error {
			for _, env := range result.Env() {
				fmt.Println(env)
			}
			return nil
		},
	)
}

// install the sdk packages required by the sample project
func Update(ctx context.Context) error {
	return h.Execute(
		ctx,
		commons.AndroidSDKUpdate(
			commons.WithProjectDir(testproject),
			commons.WithLocalProperties(commons.IsCIEnv()),
			commons.WithAndroidFetchMethod(toolchain.FetchNative),
		),
	)
}

// run unit tests
func Test(ctx context.Context) error {
	return h.Execute(
		ctx,
		func(ctx context.Context) error {
			return sdkharness.Run(ctx, "go", sdkharness.WithArgs("test", "-race", "-cover", "./..."))
		},
	)
}

// run go mod tidy
func Tidy(ctx context.Context) error {
	return h.Execute(
		ctx,
		func(ctx context.Context) error {
			return sdkharness.Run(ctx, "go", sdkharness.WithArgs("mod", "tidy"))
		},
	)
}
