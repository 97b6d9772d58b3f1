package main

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"

	"github.com/kryptco/dhmrsa/dhm"
	"github.com/kryptco/dhmrsa/internal/kr"
	"github.com/urfave/cli"
)

var dhmAliceCommand = cli.Command{
	Name:  "dhm-alice",
	Usage: "dhm-alice --out <packet file> -- generate an Alice (initiator) DHM packet",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "out", Value: "alice.pkt", Usage: "path to write the Alice packet to"},
		cli.StringFlag{Name: "device", Value: "", Usage: "randomness device path"},
	},
	Action: dhmAliceAction,
}

var dhmAliceDeriveCommand = cli.Command{
	Name:  "dhm-alice-derive",
	Usage: "dhm-alice-derive --bob <packet file> -- derive the shared secret after receiving Bob's packet",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "bob", Value: "bob.pkt", Usage: "path to Bob's packet"},
		cli.StringFlag{Name: "out", Value: "secret.bin", Usage: "path to write the derived shared secret to"},
	},
	Action: dhmAliceDeriveAction,
}

var dhmBobCommand = cli.Command{
	Name:  "dhm-bob",
	Usage: "dhm-bob --alice <packet file> --out <packet file> -- respond to an Alice packet",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "alice", Value: "alice.pkt", Usage: "path to the received Alice packet"},
		cli.StringFlag{Name: "out", Value: "bob.pkt", Usage: "path to write the Bob packet to"},
		cli.StringFlag{Name: "secret-out", Value: "secret.bin", Usage: "path to write the derived shared secret to"},
		cli.StringFlag{Name: "device", Value: "", Usage: "randomness device path"},
	},
	Action: dhmBobAction,
}

// aliceSessionFile names the file, keyed by the session GUID, that holds the
// (p, a) material GetAlice produces, so a later `dhm-alice-derive`
// invocation in a fresh process can complete the handshake once Bob's
// packet arrives.
func aliceSessionFile(guid []byte) string {
	return "dhm-alice-" + hex.EncodeToString(guid) + ".session"
}

func dhmAliceAction(c *cli.Context) error {
	session, err := dhm.Init(c.String("device"))
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}
	defer session.Close()

	pkt, a, err := dhm.GetAlice(session)
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}

	if err := ioutil.WriteFile(c.String("out"), pkt[:], 0600); err != nil {
		PrintFatal(kr.Red(err.Error()))
	}

	dir, err := kr.Dir()
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}
	persister := kr.FilePersister{Dir: dir}
	sessionBlob := append(append([]byte{}, pkt.P()...), a[:]...)
	if err := persister.Save(aliceSessionFile(pkt.GUID()), sessionBlob); err != nil {
		PrintFatal(kr.Red(err.Error()))
	}

	fmt.Printf("%s wrote Alice packet to %s (session %s)\n", kr.Green("OK"), c.String("out"), hex.EncodeToString(pkt.GUID()))
	return nil
}

func dhmAliceDeriveAction(c *cli.Context) error {
	bobBytes, err := ioutil.ReadFile(c.String("bob"))
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}
	var bobPkt dhm.BobPacket
	if len(bobBytes) != len(bobPkt) {
		PrintFatal(kr.Red("bob packet has the wrong length"))
	}
	copy(bobPkt[:], bobBytes)

	dir, err := kr.Dir()
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}
	persister := kr.FilePersister{Dir: dir}
	sessionBlob, err := persister.Load(aliceSessionFile(bobPkt.GUID()))
	if err != nil {
		PrintFatal(kr.Red("no matching Alice session found for this Bob packet: " + err.Error()))
	}
	p := sessionBlob[:dhm.PUBSIZE]
	var a [dhm.PRIVSIZE]byte
	copy(a[:], sessionBlob[dhm.PUBSIZE:])

	session, err := dhm.Init("")
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}
	defer session.Close()

	if err := dhm.AliceDeriveSecret(session, p, a, &bobPkt); err != nil {
		PrintFatal(kr.Red(err.Error()))
	}

	secret := session.Secret()
	if err := ioutil.WriteFile(c.String("out"), secret[:], 0600); err != nil {
		PrintFatal(kr.Red(err.Error()))
	}

	persister.Delete(aliceSessionFile(bobPkt.GUID()))

	fmt.Printf("%s derived shared secret, wrote to %s\n", kr.Green("OK"), c.String("out"))
	return nil
}

func dhmBobAction(c *cli.Context) error {
	aliceBytes, err := ioutil.ReadFile(c.String("alice"))
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}
	var alicePkt dhm.AlicePacket
	if len(aliceBytes) != len(alicePkt) {
		PrintFatal(kr.Red("alice packet has the wrong length"))
	}
	copy(alicePkt[:], aliceBytes)

	session, err := dhm.Init(c.String("device"))
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}
	defer session.Close()

	bobPkt, err := dhm.GetBob(session, &alicePkt)
	if err != nil {
		PrintFatal(kr.Red(err.Error()))
	}

	if err := ioutil.WriteFile(c.String("out"), bobPkt[:], 0600); err != nil {
		PrintFatal(kr.Red(err.Error()))
	}

	secret := session.Secret()
	if err := ioutil.WriteFile(c.String("secret-out"), secret[:], 0600); err != nil {
		PrintFatal(kr.Red(err.Error()))
	}

	fmt.Printf("%s wrote Bob packet to %s and shared secret to %s\n", kr.Green("OK"), c.String("out"), c.String("secret-out"))
	return nil
}
