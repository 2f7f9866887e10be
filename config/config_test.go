package config

import (
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestProvider_GetAndUpdate(t *testing.T) {
	t.Parallel()

	cfg1 := &Config{Server: Server{Addr: ":8080"}}
	provider := NewProvider(cfg1)
	if !reflect.DeepEqual(cfg1, provider.Get()) {
		t.Errorf("Get() got = %v, want %v", provider.Get(), cfg1)
	}

	cfg2 := &Config{Server: Server{Addr: ":9090"}}
	provider.Update(cfg2)
	if !reflect.DeepEqual(cfg2, provider.Get()) {
		t.Errorf("Get() got = %v, want %v", provider.Get(), cfg2)
	}
}

func TestProvider_NilPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("NewProvider did not panic with nil config")
		}
	}()
	_ = NewProvider(nil)
}

func TestProvider_Concurrency(t *testing.T) {
	t.Parallel()

	cfg1 := &Config{Server: Server{Addr: ":8080"}}
	cfg2 := &Config{Server: Server{Addr: ":9090"}}
	provider := NewProvider(cfg1)

	var wg sync.WaitGroup
	numGoroutines := 100

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = provider.Get()
			} else if i%4 == 1 {
				provider.Update(cfg2)
			} else {
				provider.Update(cfg1)
			}
		}(i)
	}
	wg.Wait()

	got := provider.Get()
	if got != cfg1 && got != cfg2 {
		t.Errorf("Get() after concurrent updates returned unknown config: %v", got)
	}
}

func TestDuration_UnmarshalText(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		text    string
		want    time.Duration
		wantErr bool
	}{
		{"seconds", "5s", 5 * time.Second, false},
		{"composite", "1h30m", 90 * time.Minute, false},
		{"zero", "0s", 0, false},
		{"garbage", "soon", 0, true},
		{"bare number", "5", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tc.text))
			if (err != nil) != tc.wantErr {
				t.Fatalf("UnmarshalText(%q) error = %v, wantErr %v", tc.text, err, tc.wantErr)
			}
			if !tc.wantErr && d.Duration != tc.want {
				t.Errorf("UnmarshalText(%q) = %v, want %v", tc.text, d.Duration, tc.want)
			}
		})
	}
}
