// Command krnc pumps bytes between a TCP connection and stdin/stdout,
// optionally encrypting what it sends and decrypting what it receives with
// an RSA keypair - a netcat-style pipe standing in for a bare TCP
// greeting/echo demo.
package main

import (
	"bytes"
	"io/ioutil"
	"log"
	"net"
	"os"
	"time"

	"github.com/kryptco/dhmrsa/entropy"
	"github.com/kryptco/dhmrsa/keyfile"
	"github.com/kryptco/dhmrsa/rsacodec"
	"github.com/kryptco/dhmrsa/rsakeygen"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "krnc"
	app.Usage = "pipe stdin/stdout through a TCP connection, optionally under RSA"
	app.ArgsUsage = "<host> [port]"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "encrypt-key", Usage: "public keyfile - encrypt stdin before sending"},
		cli.StringFlag{Name: "decrypt-key", Usage: "private keyfile - decrypt bytes received from the remote"},
	}
	app.Action = run
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 1 {
		log.Fatal("usage: krnc <host> [port]")
	}
	host := c.Args().Get(0)
	port := "22"
	if c.NArg() >= 2 {
		port = c.Args().Get(1)
	}

	remoteConn, err := net.Dial("tcp", host+":"+port)
	if err != nil {
		log.Fatal("err connecting to remote: ", err.Error())
	}
	defer remoteConn.Close()

	var pub *keyfile.PublicKey
	if path := c.String("encrypt-key"); path != "" {
		pub, err = loadPublicKeyfile(path)
		if err != nil {
			log.Fatal(err)
		}
	}
	var priv *rsakeygen.Key
	if path := c.String("decrypt-key"); path != "" {
		priv, err = loadPrivateKeyfile(path)
		if err != nil {
			log.Fatal(err)
		}
	}

	done := make(chan struct{}, 2)

	// Each TCP read is treated as exactly one ciphertext - fine for the demo's
	// one-shot request/response use, but not a general block-stream framing.
	go func() {
		defer func() { done <- struct{}{} }()
		for {
			buf := make([]byte, 1<<15)
			n, err := remoteConn.Read(buf)
			if err != nil {
				return
			}
			if n == 0 {
				continue
			}
			chunk := buf[:n]
			if priv != nil {
				var plain bytes.Buffer
				if err := rsacodec.Decrypt(&plain, bytes.NewReader(chunk), priv.D, priv.N, priv.P, priv.Q, priv.Dp, priv.Dq, priv.Qinv, 1); err != nil {
					log.Println("err decrypting remote stream:", err.Error())
					continue
				}
				chunk = plain.Bytes()
			}
			if _, err := os.Stdout.Write(chunk); err != nil {
				log.Println("err writing remote to stdout:", err.Error())
				return
			}
		}
	}()

	go func() {
		defer func() { done <- struct{}{} }()
		var src *entropy.Source
		if pub != nil {
			var err error
			src, err = entropy.Open("")
			if err != nil {
				log.Println("err opening randomness source:", err.Error())
				return
			}
			defer src.Close()
		}
		for {
			buf := make([]byte, 1<<15)
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 0 {
				continue
			}
			chunk := buf[:n]
			if pub != nil {
				var cipher bytes.Buffer
				if err := rsacodec.Encrypt(&cipher, bytes.NewReader(chunk), pub.E, pub.N, time.Now().Unix(), rsacodec.Geolocation{}, src); err != nil {
					log.Println("err encrypting outgoing stream:", err.Error())
					continue
				}
				chunk = cipher.Bytes()
			}
			if _, err := remoteConn.Write(chunk); err != nil {
				log.Println("err writing stdin to remote:", err.Error())
				return
			}
		}
	}()

	<-done
	return nil
}

func loadPublicKeyfile(path string) (*keyfile.PublicKey, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if unwrapped, pemErr := keyfile.UnwrapPEM(keyfile.PublicKeyLabel, buf); pemErr == nil {
		buf = unwrapped
	}
	return keyfile.DecodePublic(buf)
}

func loadPrivateKeyfile(path string) (*rsakeygen.Key, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if unwrapped, pemErr := keyfile.UnwrapPEM(keyfile.PrivateKeyLabel, buf); pemErr == nil {
		buf = unwrapped
	}
	return keyfile.DecodePrivate(buf)
}
