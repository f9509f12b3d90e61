package crypto

import "testing"

func TestGeneratePrivateKeyRoundTripsThroughAddress(t *testing.T) {
	priv, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}

	addr1 := priv.PubKey().Address()
	if addr1.IsZero() {
		t.Fatal("derived admin address must not be zero")
	}

	restored, err := PrivateKeyFromBytes(priv.Bytes())
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes: %v", err)
	}
	addr2 := restored.PubKey().Address()
	if !addr1.Equal(addr2) {
		t.Fatal("restoring a key from its bytes must derive the same address")
	}
}

func TestAddressBech32RoundTrip(t *testing.T) {
	priv, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	addr := priv.PubKey().Address()

	decoded, err := DecodeAddress(addr.String())
	if err != nil {
		t.Fatalf("DecodeAddress: %v", err)
	}
	if !addr.Equal(decoded) {
		t.Fatal("bech32 round trip must preserve the address bytes")
	}
}
