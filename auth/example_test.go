package auth_test

import (
	"context"
	"fmt"
	"time"

	"github.com/intelluxe-ai/svclink/auth"
)

func ExampleMinter() {
	minter, err := auth.NewMinter(auth.MinterConfig{
		Key:      []byte("shared-signing-key"),
		Issuer:   "clinic-gateway",
		Audience: "intelluxe-platform",
		TTL:      time.Hour,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	ctx := context.Background()
	first, _ := minter.Token(ctx)
	second, _ := minter.Token(ctx)

	fmt.Println("minted:", first != "")
	fmt.Println("reused until near expiry:", first == second)
	// Output:
	// minted: true
	// reused until near expiry: true
}

func ExampleStaticTokenSource() {
	src := auth.NewStaticTokenSource("pre-issued-token")

	token, _ := src.Token(context.Background())
	fmt.Println(token)
	// Output:
	// pre-issued-token
}
