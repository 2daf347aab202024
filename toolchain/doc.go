// Package toolchain locates the Android SDK on disk, installing it when it's missing.
//
// The installation strategy depends on the [Platform]:
//   - [Darwin]: the command-line tools are installed as a homebrew cask and the SDK root
//     is resolved by following the sdkmanager symlink placed on the PATH by brew.
//   - [Linux]: the command-line tools archive is downloaded and extracted into a configured
//     directory, unless a marker executable shows it is already there.
//
// Any other platform is rejected with [sdkharness.ErrUnsupportedPlatform].
//
// example usage
//
//	platform, err := toolchain.CurrentPlatform()
//	if err != nil {
//		return err
//	}
//
//	sdk := toolchain.New(
//		platform,
//		sdkharness.ProcessExecutor{},
//		toolchain.WithInstallDir("/opt/android-sdk"),
//	)
//
//	location, err := sdk.LocateOrInstall(ctx)
//	if err != nil {
//		return fmt.Errorf("failed to provision android sdk: %w", err)
//	}
//
//	// every following command should reference location.Root
//	sdkharness.Run(ctx, location.SDKManager, sdkharness.WithArgs("--sdk_root="+location.Root, "--list"))
package toolchain
