// Package sdkmanager drives the android sdkmanager to install the packages a project
// needs: the platform and build tools matching the project versions, the base tools and
// any additional package requested by the caller.
package sdkmanager
