package glitchnav

import (
	semver3 "github.com/blang/semver"
	semver "github.com/blang/semver/v4"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

func selfUpdate() error {
	latest, err := selfupdate.UpdateSelf(semver3.MustParse(releaseVersion(version).String()), "franzer/glitchnav")
	if err != nil {
		return err
	}
	logger.Printf("updated to %s", latest.Version)
	return nil
}

// releaseVersion parses v leniently (a leading v is fine). Builds that are
// not tagged releases report 0.0.0 so any release counts as newer.
func releaseVersion(v string) semver.Version {
	ver, err := semver.ParseTolerant(v)
	if err != nil {
		return semver.MustParse("0.0.0")
	}
	return ver
}

func strPtr(s string) *string     { return &s }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }
