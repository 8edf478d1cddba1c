package util

import (
	"fmt"
	"math/rand"
)

var names = []string{
	"Saver",
	"Budgeter",
	"Penny",
	"Coupon",
	"Piggy Bank",
	"Bill Buster",
}

func GenerateAlias() string {
	return fmt.Sprintf("Anon %v", names[rand.Intn(len(names))])
}
