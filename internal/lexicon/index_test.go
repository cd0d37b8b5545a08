package lexicon

import (
	"testing"

	"finchat/internal/core"
)

func testCategories() []core.Category {
	return []core.Category{
		{ID: 1, Name: "Food", Type: core.Expense, Keywords: []string{"lunch", "food"}},
		{ID: 2, Name: "Shopping", Type: core.Expense, Keywords: []string{"food court", "mall"}},
		{ID: 3, Name: "Salary", Type: core.Savings, Keywords: []string{"salary", "wage"}},
	}
}

func TestIndex_Lookup(t *testing.T) {
	idx := New(testCategories())

	tests := []struct {
		name     string
		word     string
		wantName string
		wantOK   bool
	}{
		{name: "exact keyword", word: "lunch", wantName: "Food", wantOK: true},
		{name: "case insensitive", word: "LUNCH", wantName: "Food", wantOK: true},
		{name: "savings keyword", word: "salary", wantName: "Salary", wantOK: true},
		{name: "unknown word", word: "rocket", wantOK: false},
		{name: "phrase is not a token", word: "food court", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, ok := idx.Lookup(tt.word)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.word, ok, tt.wantOK)
			}
			if ok && cat.Name != tt.wantName {
				t.Errorf("Lookup(%q) = %q, want %q", tt.word, cat.Name, tt.wantName)
			}
		})
	}
}

func TestIndex_Match_TokenPhasePrecedesPhraseScan(t *testing.T) {
	idx := New(testCategories())

	// "food" hits as a single token before the registered phrase
	// "food court" is ever tried.
	cat, ok := idx.Match("I bought food court snack")
	if !ok {
		t.Fatal("Match returned no category")
	}
	if cat.Name != "Food" {
		t.Errorf("Match resolved %q, want Food via single-token phase", cat.Name)
	}
}

func TestIndex_Match_PhraseFallback(t *testing.T) {
	idx := New(testCategories())

	// No token equals a keyword; the phrase scan finds "food court"
	// inside "foodcourt"-free text via substring.
	cat, ok := idx.Match("spent at the food court.")
	if !ok {
		t.Fatal("Match returned no category")
	}
	// "food" is a token here too; punctuation-free token "food" matches first.
	if cat.Name != "Food" {
		t.Errorf("Match resolved %q, want Food", cat.Name)
	}

	cat, ok = idx.Match("back from the food-court")
	if !ok {
		t.Fatal("Match returned no category for phrase-only message")
	}
	if cat.Name != "Food" {
		t.Errorf("Match resolved %q, want Food (phrase order)", cat.Name)
	}
}

func TestIndex_Match_FirstRegisteredPhraseWins(t *testing.T) {
	idx := New([]core.Category{
		{ID: 1, Name: "Transport", Type: core.Expense, Keywords: []string{"grab car"}},
		{ID: 2, Name: "Entertainment", Type: core.Expense, Keywords: []string{"car game"}},
	})

	cat, ok := idx.Match("paid for the grab car game night")
	if !ok {
		t.Fatal("Match returned no category")
	}
	if cat.Name != "Transport" {
		t.Errorf("Match resolved %q, want Transport (registration order)", cat.Name)
	}
}

func TestIndex_DuplicateKeywordFirstWins(t *testing.T) {
	idx := New([]core.Category{
		{ID: 1, Name: "Salary", Type: core.Savings, Keywords: []string{"pay"}},
		{ID: 2, Name: "Bills", Type: core.Expense, Keywords: []string{"pay", "bill"}},
	})

	cat, ok := idx.Lookup("pay")
	if !ok {
		t.Fatal("Lookup(pay) returned no category")
	}
	if cat.Name != "Salary" {
		t.Errorf("duplicate keyword resolved to %q, want first registration Salary", cat.Name)
	}
	if idx.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (duplicate skipped)", idx.Len())
	}
}

func TestIndex_NormalizesKeywordsOnLoad(t *testing.T) {
	idx := New([]core.Category{
		{ID: 1, Name: "Food", Type: core.Expense, Keywords: []string{"  Lunch ", "", "DINNER"}},
	})

	if idx.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", idx.Len())
	}
	if _, ok := idx.Lookup("lunch"); !ok {
		t.Error("trimmed keyword not registered")
	}
	if _, ok := idx.Lookup("dinner"); !ok {
		t.Error("lowercased keyword not registered")
	}
}
