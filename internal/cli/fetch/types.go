package fetch

import (
	"github.com/IamTheFij/release-gitter/pkg/release"
	"github.com/IamTheFij/release-gitter/pkg/remote"
)

type Release = release.Release
type Asset = release.Asset
type Values = release.Values
type Ref = remote.Ref

const (
	VersionLatest = "latest"
)
