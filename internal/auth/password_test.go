package auth

import "testing"

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123", 4)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "secret123" {
		t.Fatalf("password stored unhashed")
	}
	if err := ComparePassword(hash, "secret123"); err != nil {
		t.Fatalf("ComparePassword rejected the right password: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatalf("ComparePassword accepted a wrong password")
	}
}

func TestHashPassword_OutOfRangeCostFallsBack(t *testing.T) {
	for _, cost := range []int{-1, 0, 99} {
		hash, err := HashPassword("secret123", cost)
		if err != nil {
			t.Fatalf("cost %d: HashPassword returned error: %v", cost, err)
		}
		if err := ComparePassword(hash, "secret123"); err != nil {
			t.Fatalf("cost %d: hash does not verify: %v", cost, err)
		}
	}
}
