package llm

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTrip func(*http.Request) *http.Response

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req), nil
}

func stubClient(t *testing.T, reply string, check func(body string)) *Client {
	t.Helper()
	return &Client{
		BaseURL: "https://api.test/v1/chat/completions",
		Model:   "gpt-test",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				body, _ := io.ReadAll(req.Body)
				if check != nil {
					check(string(body))
				}
				return &http.Response{
					StatusCode: 200,
					Body:       io.NopCloser(strings.NewReader(reply)),
					Header:     make(http.Header),
				}
			}),
		},
	}
}

func TestResearchBrandSuccess(t *testing.T) {
	client := stubClient(t, `{"choices":[{"message":{"role":"assistant","content":"research"}}]}`, func(body string) {
		if !strings.Contains(body, "追加情報") {
			t.Fatalf("expected memo section in payload")
		}
		if !strings.Contains(body, "Aladdin") {
			t.Fatalf("expected brand name in payload")
		}
	})

	out, err := client.ResearchBrand(context.Background(), "Aladdin", "アラジン", "ストーブのブランド")
	if err != nil {
		t.Fatalf("ResearchBrand: %v", err)
	}
	if out != "research" {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestClassifyItemTrimsVerdict(t *testing.T) {
	client := stubClient(t, `{"choices":[{"message":{"role":"assistant","content":"  TRUE\n"}}]}`, func(body string) {
		if !strings.Contains(body, "#入力") {
			t.Fatalf("expected item section in payload")
		}
	})

	out, err := client.ClassifyItem(context.Background(), "GTIN: 123", "brand info", "Aladdin", "アラジン")
	if err != nil {
		t.Fatalf("ClassifyItem: %v", err)
	}
	if out != "TRUE" {
		t.Fatalf("unexpected verdict: %q", out)
	}
}

func TestChatAPIError(t *testing.T) {
	client := stubClient(t, `{"error":{"message":"bad"}}`, nil)
	if _, err := client.Chat(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error")
	}
}

func TestChat(t *testing.T) {
	client := stubClient(t, `{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`, nil)
	out, err := client.Chat(context.Background(), "system", "user prompt")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if out != "hi" {
		t.Fatalf("unexpected chat output %s", out)
	}
}

func TestChatRequiresConfig(t *testing.T) {
	client := &Client{}
	if _, err := client.Chat(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestItemPrompt(t *testing.T) {
	fields := []string{"0", "TRUE", "4901234567890", "製品名", "商品名", "メーカー", "fs", "1", "家電", "2", "ストーブ"}
	got := ItemPrompt(fields)
	for _, want := range []string{"GTIN: 4901234567890", "製品タイトル: 製品名", "ジャンル: 家電 >> ストーブ"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}

	if got := ItemPrompt([]string{"too", "short"}); got != "" {
		t.Errorf("short row should yield empty prompt, got %q", got)
	}
}
