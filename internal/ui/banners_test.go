package ui

import (
	"fmt"
	"testing"
)

func TestBannersFanOut(t *testing.T) {
	b := NewBanners()
	ch1, cancel1 := b.Subscribe(4)
	ch2, cancel2 := b.Subscribe(4)
	defer cancel2()

	b.Publish(LevelSuccess, "Medication data synchronized.")

	for i, ch := range []<-chan Banner{ch1, ch2} {
		got := <-ch
		if got.Text != "Medication data synchronized." || got.Level != LevelSuccess {
			t.Errorf("subscriber %d got %+v", i, got)
		}
	}

	cancel1()
	cancel1()
	if _, ok := <-ch1; ok {
		t.Error("cancelled subscription should be closed")
	}

	b.Publish(LevelWarning, "second")
	if got := <-ch2; got.Text != "second" {
		t.Errorf("got %+v", got)
	}
}

func TestBannersDropWhenFull(t *testing.T) {
	b := NewBanners()
	ch, cancel := b.Subscribe(1)
	defer cancel()

	b.Publish(LevelInfo, "one")
	b.Publish(LevelInfo, "two")

	if got := <-ch; got.Text != "one" {
		t.Errorf("got %q, want one", got.Text)
	}
	select {
	case got := <-ch:
		t.Errorf("unexpected banner %q", got.Text)
	default:
	}
}

func TestBannersRecent(t *testing.T) {
	b := NewBanners()
	for i := 0; i < recentLimit+5; i++ {
		b.Publish(LevelInfo, fmt.Sprintf("msg %d", i))
	}

	recent := b.Recent()
	if len(recent) != recentLimit {
		t.Fatalf("len(Recent()) = %d, want %d", len(recent), recentLimit)
	}
	if recent[0].Text != "msg 5" || recent[len(recent)-1].Text != fmt.Sprintf("msg %d", recentLimit+4) {
		t.Errorf("unexpected window: first %q last %q", recent[0].Text, recent[len(recent)-1].Text)
	}

	var nilBanners *Banners
	nilBanners.Publish(LevelInfo, "no panic")
}
