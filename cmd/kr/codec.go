package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/kryptco/dhmrsa/entropy"
	"github.com/kryptco/dhmrsa/internal/kr"
	"github.com/kryptco/dhmrsa/keyfile"
	"github.com/kryptco/dhmrsa/rsacodec"
	"github.com/kryptco/dhmrsa/rsakeygen"
	"github.com/urfave/cli"
)

var encryptCommand = cli.Command{
	Name:  "encrypt",
	Usage: "encrypt --key <pubkey> --in <file> --out <file>",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "key", Usage: "public keyfile path"},
		cli.StringFlag{Name: "in", Usage: "input file path"},
		cli.StringFlag{Name: "out", Usage: "output ciphertext path"},
		cli.StringFlag{Name: "device", Value: "", Usage: "randomness device path"},
		cli.Float64Flag{Name: "lat", Usage: "latitude to embed"},
		cli.Float64Flag{Name: "long", Usage: "longitude to embed"},
	},
	Action: encryptAction,
}

var decryptCommand = cli.Command{
	Name:  "decrypt",
	Usage: "decrypt --key <privkey> --in <file> --out <file>",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "key", Usage: "private keyfile path"},
		cli.StringFlag{Name: "in", Usage: "input ciphertext path"},
		cli.StringFlag{Name: "out", Usage: "output plaintext path"},
		cli.IntFlag{Name: "workers", Value: 0, Usage: "worker pool size (0 = logical CPU count)"},
		cli.BoolFlag{Name: "no-crt", Usage: "disable CRT acceleration"},
	},
	Action: decryptAction,
}

var signCommand = cli.Command{
	Name:  "sign",
	Usage: "sign --key <privkey> --in <file> --out <signature file>",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "key", Usage: "private keyfile path"},
		cli.StringFlag{Name: "in", Usage: "input file path"},
		cli.StringFlag{Name: "out", Usage: "output signature path"},
		cli.StringFlag{Name: "device", Value: "", Usage: "randomness device path"},
		cli.Float64Flag{Name: "lat", Usage: "latitude to embed"},
		cli.Float64Flag{Name: "long", Usage: "longitude to embed"},
	},
	Action: signAction,
}

var verifyCommand = cli.Command{
	Name:  "verify",
	Usage: "verify --key <pubkey> --in <file> --sig <signature file>",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "key", Usage: "public keyfile path"},
		cli.StringFlag{Name: "in", Usage: "input file path"},
		cli.StringFlag{Name: "sig", Usage: "signature file path"},
	},
	Action: verifyAction,
}

func loadPublicKey(path string) (*keyfile.PublicKey, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if unwrapped, pemErr := keyfile.UnwrapPEM(keyfile.PublicKeyLabel, buf); pemErr == nil {
		buf = unwrapped
	}
	return keyfile.DecodePublic(buf)
}

func loadPrivateKey(path string) (*rsakeygen.Key, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if unwrapped, pemErr := keyfile.UnwrapPEM(keyfile.PrivateKeyLabel, buf); pemErr == nil {
		buf = unwrapped
	}
	return keyfile.DecodePrivate(buf)
}

func encryptAction(c *cli.Context) error {
	pub, err := loadPublicKey(c.String("key"))
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}

	in, err := os.Open(c.String("in"))
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}
	defer in.Close()

	out, err := os.Create(c.String("out"))
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}
	defer out.Close()

	src, err := entropy.Open(c.String("device"))
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}
	defer src.Close()

	geo := rsacodec.Geolocation{Latitude: float32(c.Float64("lat")), Longitude: float32(c.Float64("long"))}
	if err := rsacodec.Encrypt(out, in, pub.E, pub.N, time.Now().Unix(), geo, src); err != nil {
		PrintFatal(kr.Red(err.Error()))
	}

	fmt.Printf("%s encrypted %s to %s\n", kr.Green("OK"), c.String("in"), c.String("out"))
	return nil
}

func decryptAction(c *cli.Context) error {
	priv, err := loadPrivateKey(c.String("key"))
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}

	in, err := os.Open(c.String("in"))
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}
	defer in.Close()

	out, err := os.Create(c.String("out"))
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}
	defer out.Close()

	workers := c.Int("workers")
	if workers == 0 {
		workers = kr.Workers()
	}

	p, q, dp, dq, qinv := priv.P, priv.Q, priv.Dp, priv.Dq, priv.Qinv
	if c.Bool("no-crt") {
		p, q, dp, dq, qinv = nil, nil, nil, nil, nil
	}

	err = rsacodec.Decrypt(out, in, priv.D, priv.N, p, q, dp, dq, qinv, workers)
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}

	fmt.Printf("%s decrypted %s to %s, checksum %s\n", kr.Green("OK"), c.String("in"), c.String("out"), kr.Green("verified"))
	return nil
}

func signAction(c *cli.Context) error {
	priv, err := loadPrivateKey(c.String("key"))
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}

	in, err := os.Open(c.String("in"))
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}
	defer in.Close()

	out, err := os.Create(c.String("out"))
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}
	defer out.Close()

	src, err := entropy.Open(c.String("device"))
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}
	defer src.Close()

	geo := rsacodec.Geolocation{Latitude: float32(c.Float64("lat")), Longitude: float32(c.Float64("long"))}
	if err := rsacodec.Sign(out, in, priv.D, priv.N, time.Now().Unix(), geo, src); err != nil {
		PrintFatal(kr.Red(err.Error()))
	}

	fmt.Printf("%s signed %s, wrote %s\n", kr.Green("OK"), c.String("in"), c.String("out"))
	return nil
}

func verifyAction(c *cli.Context) error {
	pub, err := loadPublicKey(c.String("key"))
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}

	in, err := os.Open(c.String("in"))
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}
	defer in.Close()

	sig, err := os.Open(c.String("sig"))
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}
	defer sig.Close()

	result, err := rsacodec.Verify(sig, in, pub.E, pub.N)
	fmt.Printf("%s %s\n", kr.OkFail(err == nil), c.String("in"))
	if err == nil {
		fmt.Printf("signed at %s, lat=%f long=%f\n", time.Unix(result.Time, 0).UTC(), result.Latitude, result.Longitude)
	}
	if err != nil {
		os.Exit(1)
	}
	return nil
}
