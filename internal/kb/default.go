package kb

// Default returns the builtin knowledge base covering the failure modes the
// transcription server is known to hit.
func Default() KnowledgeBase {
	return KnowledgeBase{
		"FileNotFoundError": {
			{
				Pattern:    "audio.wav",
				Diagnosis:  "FFmpeg failed to extract audio or file was deleted during processing",
				Fix:        "Check FFmpeg installation, verify input file exists, check disk space",
				File:       "src/services/processor.py",
				Prevention: "Add file existence check before processing, implement proper cleanup",
			},
			{
				Pattern:    "model",
				Diagnosis:  "AI model file missing or incorrect path",
				Fix:        "Download model with: python scripts/download_models.py",
				File:       "src/services/model_cache.py",
				Prevention: "Implement model validation at startup",
			},
		},
		"RuntimeError": {
			{
				Pattern:    "mat1 and mat2 shapes",
				Diagnosis:  "Dimension mismatch in neural network - incompatible model weights or inputs",
				Fix:        "Retrain model OR fix input dimensions in hybrid_router.py",
				File:       "src/models/hybrid_router.py",
				Prevention: "Add dimension validation before forward pass",
			},
			{
				Pattern:    "CUDA",
				Diagnosis:  "GPU memory exhausted or CUDA driver issue",
				Fix:        "Reduce batch size, clear GPU cache, or use CPU mode",
				File:       "config/default.yaml",
				Prevention: "Implement GPU memory monitoring",
			},
		},
		"NameError": {
			{
				Pattern:    "not defined",
				Diagnosis:  "Missing import or typo in variable name",
				Fix:        "Add missing import statement or fix variable name",
				File:       "Check module in error traceback",
				Prevention: "Use type hints and linting",
			},
		},
		"subprocess.CalledProcessError": {
			{
				Pattern:    "ffmpeg",
				Diagnosis:  "FFmpeg command failed - invalid file, codec issue, or corrupted media",
				Fix:        "Check ffmpeg/bin/ffmpeg.exe exists, validate input file format",
				File:       "src/services/processor.py",
				Prevention: "Validate media file before processing, add format detection",
			},
		},
		"UnboundLocalError": {
			{
				Pattern:    "audio_path",
				Diagnosis:  "Variable used before assignment - control flow issue",
				Fix:        "Initialize variable before try/except block OR refactor error handling",
				File:       "src/services/processor_progress.py",
				Prevention: "Always initialize variables at function start",
			},
		},
	}
}
