package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string

	HTTPClient *http.Client
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ResearchBrand asks the model for background on the maker and product
// brand. memo carries optional operator-supplied hints folded into the
// research.
func (c *Client) ResearchBrand(ctx context.Context, cbrand, pbrand, memo string) (string, error) {
	system := "あなたは優秀なマーケットアナリストです。"
	user := formatResearchPrompt(cbrand, pbrand, memo)
	return c.Chat(ctx, system, user)
}

// ReviewBrand asks the model to review earlier research, returning a
// corrected version (or the input unchanged when it is already right).
func (c *Client) ReviewBrand(ctx context.Context, cbrand, pbrand, analysis string) (string, error) {
	system := "あなたは優秀なマーケットアナリストです。"
	user := formatReviewPrompt(cbrand, pbrand, analysis)
	return c.Chat(ctx, system, user)
}

// ClassifyItem asks the model for a TRUE/FALSE verdict on one listing, given
// the brand research gathered earlier.
func (c *Client) ClassifyItem(ctx context.Context, item, brandInfo, cbrand, pbrand string) (string, error) {
	system := "あなたは優秀なE-commerceの製品分析者です。"
	user := formatItemPrompt(item, brandInfo, cbrand, pbrand)
	reply, err := c.Chat(ctx, system, user)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	if c.BaseURL == "" || c.Model == "" {
		return "", fmt.Errorf("llm: base URL and model required")
	}
	messages := []chatMessage{{Role: "system", Content: system}, {Role: "user", Content: user}}
	payload, err := c.send(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}
	return payload.Choices[0].Message.Content, nil
}

func (c *Client) send(ctx context.Context, messages []chatMessage) (*chatResponse, error) {
	reqBody, err := json.Marshal(chatRequest{Model: c.Model, Messages: messages})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("llm error: %s", payload.Error.Message)
	}
	return &payload, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}

func formatResearchPrompt(cbrand, pbrand, memo string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "今、'%s'というメーカーの'%s'というプロダクトブランドについて調査しています。\n", cbrand, pbrand)
	fmt.Fprintf(&buf, "'%s'と'%s'について以下のことを調べてください。ただし、「#追加情報」に情報があれば、その情報を加味して調査してください。\n", cbrand, pbrand)
	fmt.Fprintf(&buf, "- カンパニーブランドである'%s'が提供する製品の種類（コスメティクス、洗濯洗剤、台所洗剤、シャンプーなど）\n", cbrand)
	fmt.Fprintf(&buf, "- カンパニーブランドである'%s'が提供する製品のプロダクトブランド\n", cbrand)
	fmt.Fprintf(&buf, "- カンパニーブランドである'%s'の競合カンパニーブランド\n", cbrand)
	fmt.Fprintf(&buf, "- プロダクトブランドである'%s'の競合の他社ブランド\n", pbrand)
	fmt.Fprintf(&buf, "\n#追加情報\n%s\n\n#出力\n", memo)
	return buf.String()
}

func formatReviewPrompt(cbrand, pbrand, analysis string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "今、'%s'というメーカーの'%s'というプロダクトブランドについて調査しています。次に与える調査結果についてレビューしてください。\n", cbrand, pbrand)
	fmt.Fprintf(&buf, "情報が正しければ、与えられる情報をそのまま編集せずに出力してください。\n")
	fmt.Fprintf(&buf, "情報が誤っているもしくは不足しているならフォーマットを変更せずに情報を修正・追加してください。\n")
	fmt.Fprintf(&buf, "\n#調査結果入力\n%s\n\n#出力\n", analysis)
	return buf.String()
}

func formatItemPrompt(item, brandInfo, cbrand, pbrand string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "今、'%s'というメーカーの'%s'というプロダクトブランドについて調査しています。\n", cbrand, pbrand)
	fmt.Fprintf(&buf, "「#入力」が示す、ある製品の情報（タイトルやGTINコードなど）を見て、'%s'の製品情報であるかどうかを判断してください。'%s'および'%s'については、下の「#メーカーとプロダクトブランドについて」を参照してください。\n", pbrand, cbrand, pbrand)
	fmt.Fprintf(&buf, "以下の点に注意してください。\n")
	fmt.Fprintf(&buf, "- 「#入力」に示される情報に、'%s'の文字列が含まれるときは'%s'の製品情報である可能性が高いですが、文字列が何らかのサブストリングや全く関係のない文脈で用いられているときは製品情報ではありません。\n", pbrand, pbrand)
	fmt.Fprintf(&buf, "- メーカーである'%s'、プロダクトブランドである'%s'にはスペルバリエーション等があるので気をつけてください。\n", cbrand, pbrand)
	fmt.Fprintf(&buf, "- 競合のブランド等の行を抽出しないように注意してください。\n")
	fmt.Fprintf(&buf, "- メーカーには複数のプロダクトブランドがあります。同じメーカーの違うプロダクトブランドの行を抽出しないように注意してください。\n")
	fmt.Fprintf(&buf, "- '%s'がどういう種類の製品であるか（例えば洗剤なのか化粧品なのか、など）、に着目して、誤った種類の製品を抽出しないようにしてください。\n", pbrand)
	fmt.Fprintf(&buf, "- '%s'の製品と一緒に他の製品がセットになっている場合もありますが、'%s'が含まれるならTRUEとしてください。\n", pbrand, pbrand)
	fmt.Fprintf(&buf, "- '%s'の製品情報であると判断すれば出力は、\"TRUE\"を、そうでなければ\"FALSE\"を出力してください。\n", pbrand)
	fmt.Fprintf(&buf, "- 他に余計な情報は出力しなくて良いです。\n")
	fmt.Fprintf(&buf, "\n#メーカーとプロダクトブランドについて\n%s\n\n#入力\n%s\n\n#出力\n", brandInfo, item)
	return buf.String()
}

// ItemPrompt renders one tab-separated listing row as the #入力 block fed to
// ClassifyItem. Rows with fewer than eleven fields return the empty string.
func ItemPrompt(fields []string) string {
	if len(fields) < 11 {
		return ""
	}
	gtin := fields[2]
	ptitle := fields[3]
	ititle := fields[4]
	maker := fields[5]
	g1Name := fields[8]
	g2Name := fields[10]
	return fmt.Sprintf("\nGTIN: %s\n製品タイトル: %s\n商品タイトル: %s\nメーカー名: %s\nジャンル: %s >> %s\n",
		gtin, ptitle, ititle, maker, g1Name, g2Name)
}
