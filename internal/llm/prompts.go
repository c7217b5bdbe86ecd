package llm

// Prompt templates for scoring and digest narratives. All of them instruct
// the model to respond with bare text or bare JSON; anything else is
// treated as malformed and replaced by a local fallback upstream.
const (
	relevancePromptTemplate = `You are a tech news relevance evaluator. Score this article on its relevance to the following categories:

**Categories:**
1. **GENAI_NEWS**: Generative AI, LLMs, AI research, machine learning breakthroughs
2. **PRODUCT_IDEAS**: Innovative products, startups, tech tools, developer products

**Article:**
Title: %s
Summary: %s

**Task:** Rate relevance for each category from 0.0 (not relevant) to 1.0 (highly relevant).

Respond ONLY with valid JSON in this exact format:
{"genai_news": 0.8, "product_ideas": 0.3, "explanation": "Brief reason for scores"}`

	genaiClusterPromptTemplate = `You are an AI research digest writer. Create a concise, engaging summary of these GenAI/AI news articles for technical professionals.

**Articles in this cluster:**
%s

**Instructions:**
- Write 2-3 sentences summarizing the key theme connecting these articles
- Highlight the most important development or insight
- Use clear, direct language
- Focus on what's new or significant

Respond ONLY with the summary text (no JSON, no extra formatting).`

	productClusterPromptTemplate = `You are a product innovation digest writer. Create a concise, engaging summary of these product/startup news articles for builders and entrepreneurs.

**Articles in this cluster:**
%s

**Instructions:**
- Write 2-3 sentences summarizing the key product trend or innovation
- Highlight what's interesting for product builders
- Use clear, direct language
- Focus on actionable insights or inspiration

Respond ONLY with the summary text (no JSON, no extra formatting).`

	articlePromptTemplate = `You are summarizing a single news article for a daily digest.

Title:
%s

Source text:
%s

Instructions:
- Write 2-3 sentences summarizing the article
- Be concise and factual
- Do not include links or markdown

Respond ONLY with the summary text (no JSON, no extra formatting).`

	introPromptTemplate = `You are writing a daily digest introduction. Create a brief, engaging intro (2-3 sentences) for today's %s digest.

**Context:**
- %d main topics
- %d total articles
- Top themes: %s

Write a welcoming intro that sets the tone and previews the key themes. Be concise and engaging.

Respond ONLY with the intro text (no JSON, no extra formatting).`
)
