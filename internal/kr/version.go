package kr

import "github.com/blang/semver"

// FormatVersion is stamped into PEM keyfile comments and printed by
// `kr --version`, mirroring the teacher's CURRENT_VERSION banner.
var FormatVersion = semver.MustParse("1.0.0")
