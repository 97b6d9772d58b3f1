package main

import (
	"fmt"
	"io/ioutil"

	"github.com/kryptco/dhmrsa/internal/kr"
	"github.com/kryptco/dhmrsa/keyfile"
	"github.com/kryptco/dhmrsa/rsakeygen"
	"github.com/urfave/cli"
)

var keygenCommand = cli.Command{
	Name:  "keygen",
	Usage: "keygen --bits 2048 --out key -- generate an RSA keypair, writing key (private) and key.pub (public)",
	Flags: []cli.Flag{
		cli.IntFlag{Name: "bits", Value: 0, Usage: "modulus bit size (0 = KR_BITS, else 2048)"},
		cli.IntFlag{Name: "workers", Value: 0, Usage: "worker pool size (0 = logical CPU count)"},
		cli.StringFlag{Name: "device", Value: "", Usage: "randomness device path"},
		cli.StringFlag{Name: "out", Value: "key", Usage: "base path for the private/public keyfile pair"},
		cli.BoolFlag{Name: "pem", Usage: "wrap keyfiles in PEM armor"},
	},
	Action: keygenAction,
}

func keygenAction(c *cli.Context) error {
	bits := c.Int("bits")
	if bits == 0 {
		bits = kr.Bits()
	}
	workers := c.Int("workers")
	if workers == 0 {
		workers = kr.Workers()
	}
	device := c.String("device")
	if device == "" {
		device = kr.Device()
	}

	fmt.Printf("generating a %d-bit key with %s workers...\n", bits, workerCountLabel(workers))
	key, err := rsakeygen.Generate(bits, workers, device)
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}

	privBytes := keyfile.EncodePrivate(key)
	pubBytes := keyfile.EncodePublic(key)

	privPath := c.String("out")
	pubPath := c.String("out") + ".pub"

	if c.Bool("pem") {
		privBytes = keyfile.WrapStampedPEM(keyfile.PrivateKeyLabel, privBytes)
		pubBytes = keyfile.WrapStampedPEM(keyfile.PublicKeyLabel, pubBytes)
	}

	if err := ioutil.WriteFile(privPath, privBytes, 0600); err != nil {
		PrintFatal(kr.Red(err.Error()))
	}
	if err := ioutil.WriteFile(pubPath, pubBytes, 0644); err != nil {
		PrintFatal(kr.Red(err.Error()))
	}

	fmt.Printf("%s wrote %s and %s\n", kr.Green("OK"), privPath, pubPath)
	return nil
}

func workerCountLabel(workers int) string {
	if workers <= 0 {
		return "all available"
	}
	return fmt.Sprintf("%d", workers)
}
