package packetgen

import (
	"fmt"
	"strings"
)

// Prompt builders for every generation call the pipeline makes. Prompt
// content is the pipeline's responsibility; the response side is handled by
// the structured parser.

func knowledgePrompt(topic, additionalContext string) string {
	var b strings.Builder
	b.WriteString("Provide comprehensive, factual, and detailed information about: ")
	b.WriteString(topic)
	if additionalContext != "" {
		b.WriteString("\n\nAdditional context/requirements: ")
		b.WriteString(additionalContext)
	}
	b.WriteString("\n\nYour response should include:")
	b.WriteString("\n- Key facts, dates, names, and specific details")
	b.WriteString("\n- Historical context and significance")
	b.WriteString("\n- Notable examples and instances (avoid only the most famous/canonical ones)")
	b.WriteString("\n- Technical or specialized information")
	b.WriteString("\n- Diverse aspects covering different categories and time periods")
	b.WriteString("\n- Lesser-known but notable and significant details")
	b.WriteString("\n\nFocus on providing rich, specific, verifiable information that can support ADVANCED quiz bowl questions.")
	return b.String()
}

func contextKnowledgePrompt(topic, additionalContext string) string {
	return fmt.Sprintf(
		"Focusing specifically on '%s' in the context of '%s', provide additional details, examples, and information that would be valuable for creating advanced quiz bowl questions. Include lesser-known but notable aspects.",
		topic, additionalContext,
	)
}

func answerListPrompt(topic, additionalContext, facts string, count int, avoid []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on the following factual sources about %q, generate a list of %d ADVANCED, NON-OBVIOUS answers for challenging quiz bowl tossup questions.\n\n", topic, count)
	if additionalContext != "" {
		b.WriteString("Additional context: ")
		b.WriteString(additionalContext)
		b.WriteString("\n\n")
	}
	b.WriteString("FACTUAL SOURCES:\n")
	b.WriteString(facts)
	b.WriteString("\n\nANSWER MUST BE A SPECIFIC, CONCRETE THING:\n")
	b.WriteString("GOOD - Specific entities:\n")
	b.WriteString("   - Proper names: \"Charles Babbage\", \"Mount Vesuvius\", \"The Rite of Spring\"\n")
	b.WriteString("   - Specific works: \"Ulysses\", \"Guernica\", \"Symphony No. 9\"\n")
	b.WriteString("   - Specific events: \"the Battle of Hastings\", \"the July Revolution of 1830\"\n")
	b.WriteString("   - Defined terms: \"photosynthesis\", \"the Doppler effect\", \"iambic pentameter\"\n")
	b.WriteString("   - Specific movements/groups: \"the Pre-Raphaelite Brotherhood\", \"the Vienna Circle\"\n\n")
	b.WriteString("BAD - Vague descriptions/categories:\n")
	b.WriteString("   - \"novels about the American Dream\" (category, not a thing)\n")
	b.WriteString("   - \"battles involving Napoleon\" (category, not specific)\n")
	b.WriteString("   - \"paintings from the Renaissance\" (too broad)\n\n")
	b.WriteString("RULE: If you can't write a Wikipedia article specifically about THIS THING (not a category of things), it's too vague.\n\n")
	b.WriteString("CRITICAL - AVOID OBVIOUS/EASY CONCEPTS:\n")
	b.WriteString("- DO NOT use the most famous, canonical, or textbook examples\n")
	b.WriteString("- DO NOT use answers that a casual enthusiast would immediately guess\n")
	b.WriteString("- Example: If topic is \"Impressionism\", DON'T use Monet or Renoir - use Caillebotte or Berthe Morisot\n")
	b.WriteString("- Example: If topic is \"Shakespeare\", DON'T use Hamlet - use Cymbeline or Pericles\n\n")
	b.WriteString("INSTEAD, PRIORITIZE:\n")
	b.WriteString("- Lesser-known but still significant and quiz bowl-worthy SPECIFIC answers\n")
	b.WriteString("- Specific technical terms or specialized concepts with clear definitions\n")
	b.WriteString("- Niche but notable NAMED/DEFINED things with rich factual detail\n\n")
	b.WriteString("REQUIREMENTS:\n")
	b.WriteString("1. Each answer MUST be a specific, referenceable entity - NOT a vague category or description\n")
	b.WriteString("2. Answers should be formatted in NAQT answer line format (e.g., \"ANSWER: [Main Answer] [or alternate] (with clarification)\")\n")
	b.WriteString("3. Prioritize answers with rich, verifiable details in the sources\n")
	b.WriteString("4. Ensure diversity - cover different categories, time periods, and aspects of the topic\n")
	b.WriteString("5. Focus on answers that allow for pyramidal question construction (obscure facts -> well-known facts)\n")
	b.WriteString("6. Avoid answers that are too closely related or might reference each other in their questions\n")
	if len(avoid) > 0 {
		b.WriteString("\nDo NOT generate answers for any of these (already used):\n")
		for _, a := range avoid {
			b.WriteString("- ")
			b.WriteString(a)
			b.WriteString("\n")
		}
	}
	b.WriteString("\nReturn ONLY a JSON array of answer strings, like:\n")
	b.WriteString(`["ANSWER: First Answer", "ANSWER: Second Answer", ...]`)
	b.WriteString("\n")
	return b.String()
}

func evaluationPrompt(topic, additionalContext string, candidates []string) string {
	var b strings.Builder
	b.WriteString("You are evaluating ADVANCED quiz bowl answer candidates. Be STRICT - penalize obvious/easy answers AND vague categories.\n\n")
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Required Context: %s\n\n", additionalContext)
	b.WriteString("Candidates to evaluate:\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}
	b.WriteString("\nFor EACH candidate, rate it on a scale of 0-10.\n\n")
	b.WriteString("SCORING CRITERIA (be STRICT):\n")
	b.WriteString("9-10: Excellent - Specific entity, non-obvious, matches context perfectly, requires deep knowledge\n")
	b.WriteString("7-8:  Good - Specific entity, matches context well, somewhat challenging\n")
	b.WriteString("5-6:  Acceptable - Specific enough, matches context, but fairly obvious or well-known\n")
	b.WriteString("3-4:  Poor - Too obvious, canonical example, weak context match, OR too vague/categorical\n")
	b.WriteString("0-2:  Reject - Famous/canonical example, doesn't match context, too easy, OR vague description instead of specific thing\n\n")
	b.WriteString("HEAVILY PENALIZE:\n")
	b.WriteString("- The most famous examples (Mona Lisa, Beethoven's 5th, Hamlet, etc.)\n")
	b.WriteString("- Textbook canonical answers that beginners would know\n")
	b.WriteString("- VAGUE CATEGORIES/DESCRIPTIONS instead of specific things\n\n")
	b.WriteString("REWARD:\n")
	b.WriteString("- SPECIFIC, referenceable entities (proper nouns, defined terms)\n")
	b.WriteString("- Lesser-known but still notable and quiz bowl-worthy answers\n")
	b.WriteString("- Technical or specialized aspects requiring deeper knowledge\n\n")
	b.WriteString("RULE: If you can't write a Wikipedia article specifically about THIS THING, score it 0-2.\n\n")
	b.WriteString("Return as JSON array of objects.\n")
	b.WriteString("Each object should have fields: index (number), score (number 0-10), reasoning (string)\n")
	return b.String()
}

func deeperSearchPrompt(topic, additionalContext string, accepted []string) string {
	var b strings.Builder
	b.WriteString("We need additional ADVANCED, NON-OBVIOUS information about: ")
	b.WriteString(topic)
	if additionalContext != "" {
		b.WriteString("\n\nContext/Requirements: ")
		b.WriteString(additionalContext)
	}
	b.WriteString("\n\nWe already have information about:\n")
	if len(accepted) == 0 {
		b.WriteString("(This is our first attempt)\n")
	} else {
		for _, a := range accepted {
			b.WriteString("- ")
			b.WriteString(a)
			b.WriteString("\n")
		}
	}
	b.WriteString("\nProvide DIFFERENT, MORE SPECIFIC information focusing on:")
	b.WriteString("\n- LESSER-KNOWN but notable and quiz bowl-worthy aspects")
	b.WriteString("\n- Specialized, technical, or niche details")
	b.WriteString("\n- Second and third-order concepts (not the main/obvious ones)")
	b.WriteString("\n- Specific examples, works, events, or figures that are NOT the most famous")
	b.WriteString("\n\nCRITICAL: Avoid obvious, canonical, or textbook examples. Focus on depth and specificity.")
	return b.String()
}

func craftPrompt(topic, answer, facts, additionalContext string) string {
	var b strings.Builder
	b.WriteString("You are crafting an NAQT-style pyramidal tossup question for this specific answer:\n\n")
	b.WriteString(answer)
	b.WriteString("\n\nTopic context: ")
	b.WriteString(topic)
	b.WriteString("\n")
	if additionalContext != "" {
		b.WriteString("Additional context: ")
		b.WriteString(additionalContext)
		b.WriteString("\n")
	}
	b.WriteString("\nUse these factual sources to construct your question:\n")
	b.WriteString(facts)
	b.WriteString("\n\nPYRAMIDAL STRUCTURE (CRITICAL - MUST FOLLOW):\n\n")
	b.WriteString("SENTENCE 1 (HARDEST - Experts only):\n")
	b.WriteString("- Use the MOST OBSCURE fact from the sources\n")
	b.WriteString("- Technical terms, lesser-known works, specific dates, niche details\n")
	b.WriteString("- Should be a buzzing clue for deep experts only\n\n")
	b.WriteString("POWER MARK (*): Place immediately after sentence 1\n\n")
	b.WriteString("SENTENCE 2-3 (MODERATE - Knowledgeable players):\n")
	b.WriteString("- Use RECOGNIZABLE but not obvious facts\n")
	b.WriteString("- Notable works, significant achievements, historical context\n\n")
	b.WriteString("FINAL SENTENCE (EASIEST - Giveaway):\n")
	b.WriteString("- Use the MOST FAMOUS, CANONICAL fact\n")
	b.WriteString("- Should allow even beginners to buzz with confidence\n\n")
	b.WriteString("REQUIREMENTS:\n")
	b.WriteString("1. STRICT pyramidal progression: Each sentence must be EASIER than the previous\n")
	b.WriteString("2. Write 3-5 sentences, approximately 400-600 characters total\n")
	b.WriteString("3. ALL FACTS MUST BE VERIFIABLE from the sources provided\n")
	b.WriteString("4. Power mark (*) must appear after sentence 1 (approximately 1/3 through)\n")
	b.WriteString("5. NEVER include the answer text itself anywhere in the question\n\n")
	b.WriteString("Return your response as a JSON object.\n")
	b.WriteString("The JSON should have a single field called question containing your pyramidal question text.\n")
	b.WriteString("Do NOT include the answer in the response - we already have it.\n")
	return b.String()
}

func bonusTripletPrompt(topic, additionalContext, facts string, avoid []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on the following knowledge about '%s', generate a themed quiz bowl bonus.\n\n", topic)
	if additionalContext != "" {
		b.WriteString("Additional context: ")
		b.WriteString(additionalContext)
		b.WriteString("\n\n")
	}
	b.WriteString("KNOWLEDGE:\n")
	b.WriteString(facts)
	b.WriteString("\n\nGenerate a themed triplet of THREE related answers for an ADVANCED quiz bowl bonus.\n\n")
	b.WriteString("REQUIREMENTS:\n")
	b.WriteString("1. All three answers must be related by a SPECIFIC, INTERESTING theme\n")
	b.WriteString("2. The theme should be QUIZ BOWL-WORTHY (not too obvious, requires knowledge)\n")
	b.WriteString("3. Each answer must be a SPECIFIC, referenceable entity (proper noun, defined term, specific work, etc.)\n")
	b.WriteString("4. Answers should be formatted in NAQT answer line format\n")
	b.WriteString("5. AVOID obvious/canonical examples - choose lesser-known but notable answers\n")
	b.WriteString("6. The three answers should have similar difficulty levels\n")
	b.WriteString("7. The theme should be specific enough to be interesting but broad enough to support 3 answers\n\n")
	b.WriteString("EXAMPLE THEMES (for reference, create your own):\n")
	b.WriteString("- 'Works that prominently feature mirrors or reflections'\n")
	b.WriteString("- 'Scientific discoveries made by accident'\n")
	b.WriteString("- 'Historical figures who died in duels'\n")
	b.WriteString("- 'Poems written in terza rima'\n\n")
	if len(avoid) > 0 {
		b.WriteString("AVOID these answers (already used):\n")
		for _, a := range avoid {
			b.WriteString("- ")
			b.WriteString(a)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("Return as JSON with fields: theme, answer_a, answer_b, answer_c\n")
	b.WriteString("The theme should be a clear, specific description of what connects the three answers.\n")
	return b.String()
}

func bonusPreamblePrompt(theme string, answers [3]string) string {
	var b strings.Builder
	b.WriteString("Generate a concise, engaging preamble for a quiz bowl bonus.\n\n")
	fmt.Fprintf(&b, "The bonus theme is: %s\n\n", theme)
	b.WriteString("The three answers are:\n")
	for _, a := range answers {
		b.WriteString("- ")
		b.WriteString(a)
		b.WriteString("\n")
	}
	b.WriteString("\nPREAMBLE REQUIREMENTS:\n")
	b.WriteString("1. Should be 1-2 sentences (roughly 20-40 words)\n")
	b.WriteString("2. Clearly state the theme/connection\n")
	b.WriteString("3. Set up what the three parts will ask about\n")
	b.WriteString("4. Should end with a phrase like 'For 10 points each:' or 'For ten points each, answer the following:'\n")
	b.WriteString("5. Be engaging and precise\n\n")
	b.WriteString("EXAMPLE PREAMBLES:\n")
	b.WriteString("- 'This bonus is about works of art that depict the Annunciation. For 10 points each:'\n")
	b.WriteString("- 'Answer these questions about scientific discoveries made by accident. For ten points each:'\n\n")
	b.WriteString("Return ONLY the preamble text as a JSON object with a single field 'preamble'.\n")
	return b.String()
}

func bonusPartPrompt(theme, answer, preamble, partLabel string) string {
	var b strings.Builder
	b.WriteString("Generate a quiz bowl bonus part question for this answer.\n\n")
	fmt.Fprintf(&b, "Bonus theme: %s\n", theme)
	fmt.Fprintf(&b, "Preamble: %s\n\n", preamble)
	fmt.Fprintf(&b, "Part %s Answer: %s\n\n", partLabel, answer)
	b.WriteString("QUESTION REQUIREMENTS:\n")
	b.WriteString("1. Should be 1-3 sentences (roughly 30-80 words)\n")
	b.WriteString("2. Provide enough clues to identify the answer\n")
	b.WriteString("3. Include SPECIFIC, VERIFIABLE facts\n")
	b.WriteString("4. Progress from harder to easier clues within the question\n")
	b.WriteString("5. Should be self-contained but relate to the theme\n")
	b.WriteString("6. Don't start with 'Part A:', 'Part B:', etc. - just the question text\n\n")
	b.WriteString("Return ONLY the question text as a JSON object with a single field 'question'.\n")
	return b.String()
}
