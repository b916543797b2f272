package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/datapilotco/datapilot/pkg/llm"
	"github.com/datapilotco/datapilot/pkg/llm/ollama"
)

var _ = Describe("Ollama Client", func() {
	Describe("New", func() {
		It("defaults the base URL to the local server", func() {
			client, err := ollama.New(ollama.Config{})
			Expect(err).NotTo(HaveOccurred())
			Expect(client.Name()).To(Equal("ollama"))
		})

		It("returns a client named ollama", func() {
			client, err := ollama.New(ollama.Config{BaseURL: "http://localhost:11434"})
			Expect(err).NotTo(HaveOccurred())
			Expect(client.Name()).To(Equal("ollama"))
		})
	})

	Describe("Generate", func() {
		var (
			server   *httptest.Server
			received map[string]any
			reply    string
		)

		BeforeEach(func() {
			received = nil
			reply = `{"message": {"role": "assistant", "content": "SELECT 1"}, "done": true}`

			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/api/chat"))
				Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())
				_, _ = w.Write([]byte(reply))
			}))
			DeferCleanup(server.Close)
		})

		newClient := func() *ollama.Client {
			client, err := ollama.New(ollama.Config{
				BaseURL: server.URL,
				Model:   "llama3.2",
				Timeout: 5 * time.Second,
			})
			Expect(err).NotTo(HaveOccurred())
			return client
		}

		It("disables streaming and sends a low temperature", func() {
			out, err := newClient().Generate(context.Background(), llm.Request{
				System: "You write SQL.",
				Prompt: "How many orders?",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("SELECT 1"))

			Expect(received["model"]).To(Equal("llama3.2"))
			Expect(received["stream"]).To(BeFalse())
			Expect(received["options"].(map[string]any)["temperature"]).To(BeNumerically("==", 0.1))
		})

		It("maps an in-band error field to a malformed error", func() {
			reply = `{"error": "model not found"}`

			_, err := newClient().Generate(context.Background(), llm.Request{Prompt: "hi"})

			kind, ok := llm.KindOf(err)
			Expect(ok).To(BeTrue())
			Expect(kind).To(Equal(llm.KindMalformed))
		})

		It("maps a 503 to an unavailable error", func() {
			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			})
			busy := httptest.NewServer(handler)
			DeferCleanup(busy.Close)

			client, err := ollama.New(ollama.Config{BaseURL: busy.URL})
			Expect(err).NotTo(HaveOccurred())

			_, err = client.Generate(context.Background(), llm.Request{Prompt: "hi"})

			kind, ok := llm.KindOf(err)
			Expect(ok).To(BeTrue())
			Expect(kind).To(Equal(llm.KindUnavailable))
		})
	})
})
