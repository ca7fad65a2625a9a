package nlp

import (
	"bufio"
	"fmt"
	"hash/fnv"
	"math"
	"os"
	"strings"
	"sync"

	tflite "github.com/tphakala/go-tflite"
)

// maxEmotionTokens caps the window fed to the classifier.
const maxEmotionTokens = 100

// EmotionSource produces an emotion probability distribution for a
// text, or nil when no model signal is available. It is selected once
// at startup so call sites carry no availability checks.
type EmotionSource interface {
	Distribution(text string) map[string]float64
}

// KeywordEmotionSource is the degraded-mode source: it yields no model
// distribution, leaving emotion tagging entirely to keyword matching.
type KeywordEmotionSource struct{}

func NewKeywordEmotionSource() *KeywordEmotionSource {
	return &KeywordEmotionSource{}
}

func (source *KeywordEmotionSource) Distribution(string) map[string]float64 {
	return nil
}

// EmotionModel wraps a TensorFlow Lite multi-class emotion classifier.
// The model expects a fixed-length sequence of hashed token ids, as
// exported alongside the .tflite file; the label file carries one
// emotion name per line in output-tensor order.
type EmotionModel struct {
	model       *tflite.Model
	interpreter *tflite.Interpreter
	labels      []string
	inputLength int

	// The interpreter is not reentrant.
	mu sync.Mutex
}

func LoadEmotionModel(modelPath string, labelsPath string) (*EmotionModel, error) {
	labels, err := loadEmotionLabels(labelsPath)
	if err != nil {
		return nil, err
	}

	model := tflite.NewModelFromFile(modelPath)
	if model == nil {
		return nil, fmt.Errorf("load emotion model from %s", modelPath)
	}

	options := tflite.NewInterpreterOptions()
	options.SetNumThread(1)

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		model.Delete()
		return nil, fmt.Errorf("create emotion model interpreter")
	}
	if status := interpreter.AllocateTensors(); status != tflite.OK {
		interpreter.Delete()
		model.Delete()
		return nil, fmt.Errorf("allocate emotion model tensors: %v", status)
	}

	input := interpreter.GetInputTensor(0)
	if input == nil {
		interpreter.Delete()
		model.Delete()
		return nil, fmt.Errorf("emotion model has no input tensor")
	}
	inputLength := input.Dim(input.NumDims() - 1)

	output := interpreter.GetOutputTensor(0)
	if output == nil {
		interpreter.Delete()
		model.Delete()
		return nil, fmt.Errorf("emotion model has no output tensor")
	}
	if outputSize := output.Dim(output.NumDims() - 1); outputSize != len(labels) {
		interpreter.Delete()
		model.Delete()
		return nil, fmt.Errorf("emotion label count %d does not match model output size %d", len(labels), outputSize)
	}

	return &EmotionModel{
		model:       model,
		interpreter: interpreter,
		labels:      labels,
		inputLength: inputLength,
	}, nil
}

// Distribution runs the classifier over a truncated token window and
// softmax-normalizes the output. Inference failures yield nil so the
// caller degrades to keyword matching for this text.
func (emotionModel *EmotionModel) Distribution(text string) map[string]float64 {
	emotionModel.mu.Lock()
	defer emotionModel.mu.Unlock()

	input := emotionModel.interpreter.GetInputTensor(0)
	if input == nil {
		return nil
	}

	features := input.Float32s()
	tokenIDs := hashTokenIDs(text, emotionModel.inputLength)
	for i := range features {
		features[i] = 0
		if i < len(tokenIDs) {
			features[i] = float32(tokenIDs[i])
		}
	}

	if status := emotionModel.interpreter.Invoke(); status != tflite.OK {
		return nil
	}

	output := emotionModel.interpreter.GetOutputTensor(0)
	if output == nil {
		return nil
	}

	logits := make([]float32, len(emotionModel.labels))
	copy(logits, output.Float32s())

	probabilities := softmax(logits)
	distribution := make(map[string]float64, len(emotionModel.labels))
	for i, label := range emotionModel.labels {
		distribution[label] = probabilities[i]
	}
	return distribution
}

func (emotionModel *EmotionModel) Close() {
	emotionModel.mu.Lock()
	defer emotionModel.mu.Unlock()
	if emotionModel.interpreter != nil {
		emotionModel.interpreter.Delete()
		emotionModel.interpreter = nil
	}
	if emotionModel.model != nil {
		emotionModel.model.Delete()
		emotionModel.model = nil
	}
}

func loadEmotionLabels(labelsPath string) ([]string, error) {
	file, err := os.Open(labelsPath)
	if err != nil {
		return nil, fmt.Errorf("open emotion labels: %w", err)
	}
	defer file.Close()

	labels := make([]string, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		label := strings.TrimSpace(scanner.Text())
		if label == "" {
			continue
		}
		labels = append(labels, label)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read emotion labels: %w", err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("emotion labels file %s is empty", labelsPath)
	}
	return labels, nil
}

// hashTokenIDs maps up to maxEmotionTokens lower-cased words onto the
// model's hashed vocabulary (FNV-1a mod input length), matching the
// feature hashing used when the model was exported.
func hashTokenIDs(text string, inputLength int) []int {
	words := strings.Fields(strings.ToLower(text))
	if len(words) > maxEmotionTokens {
		words = words[:maxEmotionTokens]
	}
	if len(words) > inputLength {
		words = words[:inputLength]
	}

	ids := make([]int, 0, len(words))
	for _, word := range words {
		hasher := fnv.New32a()
		hasher.Write([]byte(word))
		ids = append(ids, int(hasher.Sum32()%uint32(emotionVocabularySize)))
	}
	return ids
}

// emotionVocabularySize matches the hashing space of the exported model.
const emotionVocabularySize = 20000

func softmax(logits []float32) []float64 {
	if len(logits) == 0 {
		return nil
	}
	maxLogit := logits[0]
	for _, logit := range logits[1:] {
		if logit > maxLogit {
			maxLogit = logit
		}
	}

	total := 0.0
	exponents := make([]float64, len(logits))
	for i, logit := range logits {
		exponents[i] = math.Exp(float64(logit - maxLogit))
		total += exponents[i]
	}

	probabilities := make([]float64, len(logits))
	for i, exponent := range exponents {
		probabilities[i] = exponent / total
	}
	return probabilities
}
