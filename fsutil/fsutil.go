// Package fsutil implements the local filesystem transaction used to
// stage cycle working directories. All methods are no-ops once an error
// occurred; the first error sticks in Err.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Transaction ...
type Transaction struct {
	Err error
}

// Exists ...
func (tr *Transaction) Exists(file string) bool {
	if tr.Err != nil {
		return false
	}
	_, err := os.Lstat(file)
	if err != nil && !os.IsNotExist(err) {
		tr.Err = err
	}
	return err == nil
}

// MkDir creates dir and any missing parent.
func (tr *Transaction) MkDir(dir string) {
	if tr.Err != nil {
		return
	}
	tr.Err = os.MkdirAll(dir, os.FileMode(0755))
}

// RemoveAll ...
func (tr *Transaction) RemoveAll(p string) {
	if tr.Err != nil {
		return
	}
	tr.Err = os.RemoveAll(p)
}

// Copy ...
func (tr *Transaction) Copy(from, to string) {
	if tr.Err != nil {
		return
	}
	source, err := os.Open(from)
	if err != nil {
		tr.Err = err
		return
	}
	defer source.Close()

	tr.RemoveAll(to)
	if tr.Err != nil {
		return
	}

	target, err := os.OpenFile(to, os.O_CREATE|os.O_WRONLY, os.FileMode(0664))
	if err != nil {
		tr.Err = err
		return
	}
	defer target.Close()

	_, tr.Err = io.Copy(target, source)
}

// Rename ...
func (tr *Transaction) Rename(from, to string) {
	if tr.Err != nil {
		return
	}
	tr.Err = os.Rename(from, to)
}

// LinkAbs creates a symbolic link at `to` with the absolute path of
// `from` as target. An existing file or link at `to` is replaced,
// so re-staging a cycle never fails on leftovers.
func (tr *Transaction) LinkAbs(from, to string) {
	if tr.Err != nil {
		return
	}
	abs, err := filepath.Abs(from)
	if err != nil {
		tr.Err = err
		return
	}
	tr.forceSymlink(abs, to)
}

// LinkRel creates a symbolic link at `to` whose target is `from`
// expressed relative to the directory of `to`. Used for sources inside
// the experiment tree, to keep the tree relocatable.
func (tr *Transaction) LinkRel(from, to string) {
	if tr.Err != nil {
		return
	}
	absFrom, err := filepath.Abs(from)
	if err != nil {
		tr.Err = err
		return
	}
	absToDir, err := filepath.Abs(filepath.Dir(to))
	if err != nil {
		tr.Err = err
		return
	}
	rel, err := filepath.Rel(absToDir, absFrom)
	if err != nil {
		tr.Err = fmt.Errorf("cannot express `%s` relative to `%s`: %w", from, absToDir, err)
		return
	}
	tr.forceSymlink(rel, to)
}

func (tr *Transaction) forceSymlink(target, to string) {
	if _, err := os.Lstat(to); err == nil {
		if tr.Err = os.Remove(to); tr.Err != nil {
			return
		}
	}
	tr.Err = os.Symlink(target, to)
}
