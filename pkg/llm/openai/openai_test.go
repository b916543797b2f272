package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/datapilotco/datapilot/pkg/llm"
	"github.com/datapilotco/datapilot/pkg/llm/openai"
)

var _ = Describe("OpenAI Client", func() {
	Describe("New", func() {
		It("defaults the base URL to the hosted endpoint", func() {
			client, err := openai.New(openai.Config{APIKey: "sk-test"})
			Expect(err).NotTo(HaveOccurred())
			Expect(client.Name()).To(Equal("openai"))
		})

		It("requires an API key", func() {
			_, err := openai.New(openai.Config{BaseURL: "https://api.openai.com"})
			Expect(err).To(MatchError(ContainSubstring("api key")))
		})

		It("returns a client named openai", func() {
			client, err := openai.New(openai.Config{BaseURL: "https://api.openai.com", APIKey: "sk-test"})
			Expect(err).NotTo(HaveOccurred())
			Expect(client.Name()).To(Equal("openai"))
		})
	})

	Describe("Generate", func() {
		var (
			server   *httptest.Server
			received map[string]any
			status   int
			reply    string
		)

		BeforeEach(func() {
			received = nil
			status = http.StatusOK
			reply = `{"choices": [{"message": {"content": "SELECT 1"}}]}`

			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/v1/chat/completions"))
				Expect(r.Header.Get("Authorization")).To(Equal("Bearer sk-test"))
				Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())
				w.WriteHeader(status)
				_, _ = w.Write([]byte(reply))
			}))
			DeferCleanup(server.Close)
		})

		newClient := func() *openai.Client {
			client, err := openai.New(openai.Config{
				BaseURL: server.URL,
				APIKey:  "sk-test",
				Model:   "gpt-4o-mini",
				Timeout: 5 * time.Second,
			})
			Expect(err).NotTo(HaveOccurred())
			return client
		}

		It("sends system and user messages with a low temperature", func() {
			out, err := newClient().Generate(context.Background(), llm.Request{
				System: "You write SQL.",
				Prompt: "How many customers?",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("SELECT 1"))

			Expect(received["model"]).To(Equal("gpt-4o-mini"))
			Expect(received["temperature"]).To(BeNumerically("==", 0.1))

			messages := received["messages"].([]any)
			Expect(messages).To(HaveLen(2))
			Expect(messages[0].(map[string]any)["role"]).To(Equal("system"))
			Expect(messages[1].(map[string]any)["content"]).To(Equal("How many customers?"))
		})

		It("omits the system message when empty", func() {
			_, err := newClient().Generate(context.Background(), llm.Request{Prompt: "hi"})
			Expect(err).NotTo(HaveOccurred())
			Expect(received["messages"].([]any)).To(HaveLen(1))
		})

		It("maps 401 to an auth error", func() {
			status = http.StatusUnauthorized
			reply = `{"error": {"message": "bad key"}}`

			_, err := newClient().Generate(context.Background(), llm.Request{Prompt: "hi"})

			kind, ok := llm.KindOf(err)
			Expect(ok).To(BeTrue())
			Expect(kind).To(Equal(llm.KindAuth))
		})

		It("maps 500 to an unavailable error", func() {
			status = http.StatusInternalServerError
			reply = `oops`

			_, err := newClient().Generate(context.Background(), llm.Request{Prompt: "hi"})

			kind, ok := llm.KindOf(err)
			Expect(ok).To(BeTrue())
			Expect(kind).To(Equal(llm.KindUnavailable))
		})

		It("maps an empty choices list to a malformed error", func() {
			reply = `{"choices": []}`

			_, err := newClient().Generate(context.Background(), llm.Request{Prompt: "hi"})

			kind, ok := llm.KindOf(err)
			Expect(ok).To(BeTrue())
			Expect(kind).To(Equal(llm.KindMalformed))
		})

		It("maps a connection failure to a transport error", func() {
			client := newClient()
			server.Close()

			_, err := client.Generate(context.Background(), llm.Request{Prompt: "hi"})

			var llmErr *llm.Error
			Expect(errors.As(err, &llmErr)).To(BeTrue())
			Expect(llmErr.Provider).To(Equal("openai"))
		})
	})
})
