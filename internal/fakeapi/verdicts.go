package fakeapi

// WorthyResponse is returned for every reel URL not matched by another canned verdict.
const WorthyResponse = `{
  "worthy": true,
  "response": {
    "link": {"filename": "reel.mp4", "width": 1080, "height": 1920,
      "videoUrl": "https://cdn.example.com/reel.mp4", "success": true},
    "video_and_audio": {"success": true, "video": "reel.mp4", "audio": "reel.mp3"},
    "transcription": "Drinking lemon water every morning cures diabetes.",
    "description": {
      "success": true,
      "analysis": {
        "category": "health",
        "summary": "Speaker claims lemon water cures diabetes.",
        "is_worthy": true,
        "claims": [
          {"claim": "Lemon water cures diabetes", "evidence": "Stated by the speaker", "is_worth_verifying": true}
        ]
      }
    },
    "if_worthy_response": {
      "overall_authenticity": "false",
      "overall_score": 0.12,
      "summary": "The central claim contradicts medical consensus.",
      "recommendation": "Label as misleading",
      "individual_claims": [
        {
          "claim": "Lemon water cures diabetes",
          "can_verify_with_llm": true,
          "verification_method": "medical literature",
          "authenticity_score": 0.05,
          "authenticity_label": "false",
          "explanation": "No clinical evidence supports the claim.",
          "evidence_sources": ["https://www.who.int/health-topics/diabetes"],
          "confidence": 0.93
        }
      ]
    },
    "final": {
      "overall_authenticity": "false",
      "overall_score": 0.12,
      "summary": "Misleading health claim.",
      "recommendation": "Label as misleading",
      "individual_claims": []
    },
    "trace_id": "fake-trace"
  }
}`

// NotWorthyResponse is returned for reel URLs containing "not-worthy".
const NotWorthyResponse = `{
  "worthy": false,
  "response": {
    "link": {"filename": "reel.mp4", "width": 720, "height": 1280,
      "videoUrl": "https://cdn.example.com/reel.mp4", "success": true},
    "video_and_audio": {"success": true, "video": "reel.mp4", "audio": "reel.mp3"},
    "transcription": "Here is my morning routine.",
    "description": {
      "success": true,
      "analysis": {
        "category": "lifestyle",
        "summary": "A morning routine vlog.",
        "is_worthy": false,
        "why_not_worthy": "No factual claims are made.",
        "claims": []
      }
    },
    "not_worthy_response": {
      "summary": "Personal vlog.",
      "reason": "No factual claims are made.",
      "category": "lifestyle"
    },
    "final": {
      "summary": "Nothing to verify.",
      "reason": "No factual claims are made.",
      "category": "lifestyle"
    }
  }
}`
