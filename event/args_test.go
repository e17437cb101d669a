package event

import (
	"errors"
	"reflect"
	"testing"
)

func TestArgs_Arity(t *testing.T) {
	tests := []struct {
		name        string
		args        Args
		least, most int
		wantErr     bool
	}{
		{name: "exact", args: Args{"a", "b", 1}, least: 3, most: 3},
		{name: "too few exact", args: Args{"a"}, least: 3, most: 3, wantErr: true},
		{name: "too many exact", args: Args{"a", "b", 1, 2}, least: 3, most: 3, wantErr: true},
		{name: "variadic one", args: Args{"pkg", ">= 1"}, least: 2, most: -1},
		{name: "variadic many", args: Args{"pkg", ">= 1", "< 2", "!= 1.5"}, least: 2, most: -1},
		{name: "variadic too few", args: Args{"pkg"}, least: 2, most: -1, wantErr: true},
		{name: "range upper", args: Args{1, 2, 3}, least: 1, most: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.args.Arity(tt.least, tt.most)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArguments) {
					t.Errorf("Arity() = %v, want ErrInvalidArguments", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Arity() = %v", err)
			}
		})
	}
}

func TestArgs_String(t *testing.T) {
	args := Args{"rails", 42, "  "}

	if got, err := args.String(0); err != nil || got != "rails" {
		t.Errorf("String(0) = %q, %v", got, err)
	}
	for _, i := range []int{1, 2, 3, -1} {
		if _, err := args.String(i); !errors.Is(err, ErrInvalidArguments) {
			t.Errorf("String(%d) error = %v, want ErrInvalidArguments", i, err)
		}
	}
}

func TestArgs_Strings(t *testing.T) {
	got, err := Args{"pkg", ">= 1", "< 2"}.Strings(1)
	if err != nil {
		t.Fatalf("Strings: %v", err)
	}
	if want := []string{">= 1", "< 2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Strings(1) = %v, want %v", got, want)
	}

	if _, err := (Args{"pkg", 3}).Strings(1); !errors.Is(err, ErrInvalidArguments) {
		t.Errorf("Strings error = %v, want ErrInvalidArguments", err)
	}
}

func TestArgs_Int(t *testing.T) {
	tests := []struct {
		name    string
		arg     any
		want    int
		wantErr bool
	}{
		{name: "int", arg: 42, want: 42},
		{name: "int64", arg: int64(7), want: 7},
		{name: "uint8", arg: uint8(3), want: 3},
		{name: "whole float", arg: float64(12), want: 12},
		{name: "decimal string", arg: "42", want: 42},
		{name: "hash string", arg: "#42", want: 42},
		{name: "padded string", arg: " 9 ", want: 9},
		{name: "fractional float", arg: 1.5, wantErr: true},
		{name: "word", arg: "forty-two", wantErr: true},
		{name: "bool", arg: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Args{tt.arg}.Int(0)
			if tt.wantErr {
				var argErr *ArgumentError
				if !errors.As(err, &argErr) || argErr.Index != 0 {
					t.Errorf("Int() error = %v, want ArgumentError at 0", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Int() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Int() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	lookup := &LookupError{Kind: ErrLookupFailed, Service: "rubygems", Target: "rails", Err: cause}

	if !errors.Is(lookup, ErrLookupFailed) || !errors.Is(lookup, cause) {
		t.Error("LookupError should unwrap to its kind and cause")
	}
	if !IsRetryable(lookup) {
		t.Error("lookup failures are retryable")
	}
	if IsCallerError(lookup) {
		t.Error("lookup failures are not caller errors")
	}
	if want := "lookup failed: rubygems rails: dial tcp: connection refused"; lookup.Error() != want {
		t.Errorf("Error() = %q, want %q", lookup.Error(), want)
	}

	notFound := &LookupError{Kind: ErrPackageNotFound, Service: "rubygems", Target: "nope", Err: cause}
	if IsRetryable(notFound) {
		t.Error("a missing package is not retryable")
	}

	if !IsCallerError(&UnknownEventError{Name: "x"}) || !IsCallerError(&ArgumentError{Index: 0, Reason: "bad"}) {
		t.Error("unknown events and bad arguments are caller errors")
	}
}

func TestResult(t *testing.T) {
	if NotMet().IsMet() || NotMet().Message() != "" {
		t.Error("NotMet should carry no message")
	}
	r := Met("hello")
	if !r.IsMet() || r.Message() != "hello" {
		t.Errorf("Met = %v", r)
	}
	if r.String() != "Met(hello)" || NotMet().String() != "NotMet" {
		t.Errorf("String() = %q / %q", r.String(), NotMet().String())
	}
}
