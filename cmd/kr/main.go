// Command kr drives the DHM key-agreement engine and the RSA file-encryption
// and signing toolkit from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/kryptco/dhmrsa/internal/kr"
	"github.com/op/go-logging"
	"github.com/urfave/cli"
)

var log *logging.Logger

func PrintFatal(msg string, args ...interface{}) {
	PrintErr(msg, args...)
	os.Exit(1)
}

func PrintErr(msg string, args ...interface{}) {
	os.Stderr.WriteString(fmt.Sprintf(msg, args...) + "\n")
}

func main() {
	log = kr.SetupLogging("kr", logging.NOTICE)

	runID, err := kr.ShortID()
	if err != nil {
		runID = kr.NewCorrelationID()
	}
	log.Noticef("run %s: %s", runID, os.Args[1:])

	app := cli.NewApp()
	app.Name = "kr"
	app.Usage = "DHM key agreement and RSA file encryption/signing"
	app.Version = kr.FormatVersion.String()
	app.Commands = []cli.Command{
		dhmAliceCommand,
		dhmAliceDeriveCommand,
		dhmBobCommand,
		keygenCommand,
		encryptCommand,
		decryptCommand,
		signCommand,
		verifyCommand,
	}
	if err := app.Run(os.Args); err != nil {
		PrintFatal(kr.Red(err.Error()))
	}
}
