// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package github fetches shared rule configuration files from GitHub repositories
package github

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const hostPrefix = "github.com/"

// 📦 Source points at one file in a repository: github.com/org/repo@ref:path/file.yaml
type Source struct {
	Owner string
	Repo  string
	Ref   string // empty means the default branch
	Path  string
}

func (s Source) String() string {
	ref := ""
	if s.Ref != "" {
		ref = "@" + s.Ref
	}
	return fmt.Sprintf("%s%s/%s%s:%s", hostPrefix, s.Owner, s.Repo, ref, s.Path)
}

// 🔍 IsRemote reports whether location names a GitHub source rather than a local path
func IsRemote(location string) bool {
	return strings.HasPrefix(location, hostPrefix)
}

// 🔍 ParseSource parses github.com/org/repo[@ref]:path
func ParseSource(location string) (Source, error) {
	if !IsRemote(location) {
		return Source{}, errors.Errorf("invalid github source %q: expected github.com/org/repo@ref:path", location)
	}

	repoPart, path, ok := strings.Cut(strings.TrimPrefix(location, hostPrefix), ":")
	if !ok || strings.Trim(path, "/") == "" {
		return Source{}, errors.Errorf("invalid github source %q: missing :path", location)
	}

	repoPart, ref, _ := strings.Cut(repoPart, "@")
	parts := strings.Split(repoPart, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Source{}, errors.Errorf("invalid github source %q: expected org/repo", location)
	}

	return Source{
		Owner: parts[0],
		Repo:  parts[1],
		Ref:   ref,
		Path:  strings.Trim(path, "/"),
	}, nil
}

// 🔌 RepositoriesClient is the subset of the GitHub repositories API we use
type RepositoriesClient interface {
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
}

// 🎯 Fetcher downloads single files through the contents API
type Fetcher struct {
	client RepositoriesClient
}

// 🏭 New creates a fetcher; GITHUB_TOKEN is used when set
func New(ctx context.Context) *Fetcher {
	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	} else {
		zerolog.Ctx(ctx).Debug().Msg("GITHUB_TOKEN not set, using unauthenticated client")
	}
	return NewWithClient(client.Repositories)
}

// 🏭 NewWithClient creates a fetcher around an existing repositories client
func NewWithClient(client RepositoriesClient) *Fetcher {
	return &Fetcher{client: client}
}

// 📥 Fetch returns the file name and content behind location
func (f *Fetcher) Fetch(ctx context.Context, location string) (string, []byte, error) {
	src, err := ParseSource(location)
	if err != nil {
		return "", nil, err
	}

	zerolog.Ctx(ctx).Debug().Str("source", src.String()).Msg("fetching remote config")

	var opts *github.RepositoryContentGetOptions
	if src.Ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: src.Ref}
	}

	file, dir, _, err := f.client.GetContents(ctx, src.Owner, src.Repo, src.Path, opts)
	if err != nil {
		var rle *github.RateLimitError
		if errors.As(err, &rle) {
			return "", nil, errors.Errorf("fetching %s: rate limit exceeded: %w", src, err)
		}
		return "", nil, errors.Errorf("fetching %s: %w", src, err)
	}
	if file == nil {
		return "", nil, errors.Errorf("fetching %s: path is a directory with %d entries", src, len(dir))
	}

	content, err := file.GetContent()
	if err != nil {
		return "", nil, errors.Errorf("decoding %s: %w", src, err)
	}

	return src.Path, []byte(content), nil
}
