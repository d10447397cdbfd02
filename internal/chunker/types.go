package chunker

// Chunk is one corpus record: a trimmed window of a document's text.
type Chunk struct {
	Doc  string `json:"doc"`  // имя исходного файла
	Text string `json:"text"` // непустой текст окна
}

// Chunker splits a document into chunks.
type Chunker interface {
	// Chunk разбивает контент на чанки
	Chunk(content, source string) ([]Chunk, error)

	// Name возвращает название chunker'а для логирования
	Name() string
}

// Config holds window parameters measured in characters.
type Config struct {
	Size    int // длина окна
	Overlap int // перекрытие соседних окон
}

// Stride is the distance between consecutive window starts.
func (c Config) Stride() int {
	return c.Size - c.Overlap
}
