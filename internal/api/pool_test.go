package api

import (
	"context"
	"testing"

	"github.com/gowikibot/wikibot/internal/family"
)

func TestPoolFor(t *testing.T) {
	t.Parallel()

	fam := family.Wikipedia()
	en, err := fam.Site("en")
	if err != nil {
		t.Fatal(err)
	}
	de, err := fam.Site("de")
	if err != nil {
		t.Fatal(err)
	}

	p := NewPool("wikibot-test/1.0", 0)

	c1, err := p.For(en)
	if err != nil {
		t.Fatalf("For(en) error = %v", err)
	}
	c2, err := p.For(en)
	if err != nil {
		t.Fatalf("For(en) second call error = %v", err)
	}
	if c1 != c2 {
		t.Error("For() should return the cached client for the same site")
	}

	c3, err := p.For(de)
	if err != nil {
		t.Fatalf("For(de) error = %v", err)
	}
	if c3 == c1 {
		t.Error("distinct sites should get distinct clients")
	}
	if !c3.Site().Equal(de) {
		t.Errorf("client site = %v, want %v", c3.Site(), de)
	}
}

func TestSavePageRequiresLogin(t *testing.T) {
	t.Parallel()

	c := testClient(t)

	err := c.SavePage(context.Background(), "Berlin", "text", "summary", "", true)
	if err != ErrNotLoggedIn {
		t.Errorf("SavePage() error = %v, want ErrNotLoggedIn", err)
	}
}
