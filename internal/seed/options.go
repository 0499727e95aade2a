// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"outstagram/internal/validation"

	"gopkg.in/yaml.v3"
)

// DefaultPassword is the password every seeded account can log in with.
const DefaultPassword = "Outstagram-2024!"

// Options controls how much data a seeding run produces. It is also the
// YAML preset format accepted by cmd/seed.
type Options struct {
	Users           int     `yaml:"users"`
	PostsPerUser    int     `yaml:"posts_per_user"`
	MaxMediaPerPost int     `yaml:"max_media_per_post"`
	FollowsPerUser  int     `yaml:"follows_per_user"`
	AcceptRate      float64 `yaml:"accept_rate"`
	LikesPerPost    int     `yaml:"likes_per_post"`
	CommentsPerPost int     `yaml:"comments_per_post"`
	MaxDays         int     `yaml:"max_days"`
	Password        string  `yaml:"password"`
	// FastHash hashes passwords at bcrypt's minimum cost.
	FastHash bool  `yaml:"fast_hash"`
	Seed     int64 `yaml:"seed"`
}

// DefaultOptions is a small but well-connected network.
func DefaultOptions() Options {
	return Options{
		Users:           30,
		PostsPerUser:    6,
		MaxMediaPerPost: 4,
		FollowsPerUser:  8,
		AcceptRate:      0.7,
		LikesPerPost:    5,
		CommentsPerPost: 2,
		MaxDays:         90,
		Password:        DefaultPassword,
	}
}

func (o *Options) normalize() error {
	if o.Users < 0 || o.PostsPerUser < 0 || o.FollowsPerUser < 0 || o.LikesPerPost < 0 || o.CommentsPerPost < 0 {
		return errors.New("seed counts cannot be negative")
	}
	if o.AcceptRate < 0 || o.AcceptRate > 1 {
		return fmt.Errorf("accept_rate must be between 0 and 1, got %v", o.AcceptRate)
	}
	if o.MaxMediaPerPost < 0 {
		o.MaxMediaPerPost = 0
	}
	if o.MaxMediaPerPost > validation.MaxMediaPerPost {
		o.MaxMediaPerPost = validation.MaxMediaPerPost
	}
	if o.MaxDays <= 0 {
		o.MaxDays = 90
	}
	if o.Password == "" {
		o.Password = DefaultPassword
	}
	return nil
}

// LoadPreset reads a YAML preset. Keys that are absent keep their default
// values and unknown keys are rejected.
func LoadPreset(r io.Reader) (Options, error) {
	opts := DefaultOptions()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("decode preset: %w", err)
	}
	if err := opts.normalize(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadPresetFile reads a YAML preset from path.
func LoadPresetFile(path string) (Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Options{}, err
	}
	return LoadPreset(bytes.NewReader(raw))
}
