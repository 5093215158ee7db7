// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package version houses the version information of the utilities provided in
// this repository.
package version

import (
	"fmt"
	"strings"
)

const (
	// semanticAlphabet defines the allowed characters for the pre-release
	// and build portions of a semantic version string.
	semanticAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"
)

// These constants define the application version and follow the semantic
// versioning 2.0.0 spec (http://semver.org/).
const (
	Major uint = 0
	Minor uint = 3
	Patch uint = 0
)

var (
	// PreRelease is defined as a variable so it can be overridden during the
	// build process with:
	// '-ldflags "-X github.com/cashsuite/bchscript/internal/version.PreRelease=foo"'
	// if needed.
	PreRelease = "beta"

	// BuildMetadata is defined as a variable so it can be overridden during
	// the build process in the same way.  Dots separate its identifiers.
	BuildMetadata = ""
)

// String returns the application version as a properly formed string per the
// semantic versioning 2.0.0 spec (http://semver.org/).  Characters not
// allowed in the pre-release and build portions are dropped.
func String() string {
	version := fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)

	if preRelease := normalize(PreRelease, semanticAlphabet); preRelease != "" {
		version = fmt.Sprintf("%s-%s", version, preRelease)
	}
	if build := normalize(BuildMetadata, semanticAlphabet+"."); build != "" {
		version = fmt.Sprintf("%s+%s", version, build)
	}

	return version
}

// normalize returns str stripped of the characters missing from alphabet.
func normalize(str, alphabet string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(alphabet, r) {
			return r
		}
		return -1
	}, str)
}
