// +build windows

package kr

import (
	"os"
	"os/user"
	"path/filepath"
)

//	Find home directory of logged-in user
func UnsudoedHomeDir() (home string) {
	currentUser, err := user.Current()
	if err == nil && currentUser != nil {
		home = currentUser.HomeDir
	} else {
		log.Notice("falling back to $HOME")
		home = os.Getenv("HOME")
		err = nil
	}
	return
}

// Dir returns (creating it if needed) the directory keyfiles and session
// state default to on Windows.
func Dir() (krPath string, err error) {
	home := UnsudoedHomeDir()
	krPath = filepath.Join(home, "appdata", "local", "dhmrsa")
	err = os.MkdirAll(krPath, os.FileMode(0700))
	return
}
