package registry

import "github.com/dshills/evalcard/internal/schema"

// categories is the compiled-in category table in display order.
var categories = []Category{
	{
		ID:          "language-communication",
		Name:        "Language & Communication",
		Type:        schema.TypeCapability,
		Description: "Evaluates the system's ability to understand, generate, and engage in natural language communication across various contexts, languages, and communication styles.",
		Guidance:    `Key Benchmarks to Look For:
General: MMLU, HellaSwag, ARC, WinoGrande
Reading Comprehension: SQuAD, QuAC, CoQA
Language Generation: BLEU, ROUGE, BERTScore
Multilingual: XTREME, XGLUE, mBERT evaluation
Reasoning: GSM8K, BBH (BIG-Bench Hard)
Instruction Following: Alpaca Eval, MT-Bench

Evaluation Focus:
• Semantic understanding across languages
• Text generation quality and coherence
• Reasoning and logical inference
• Context retention in long conversations
• Factual accuracy and knowledge recall

Common Risk Areas:
• Hallucination and misinformation generation
• Bias in language generation
• Inconsistent performance across languages`,
	},
	{
		ID:          "social-intelligence",
		Name:        "Social Intelligence & Interaction",
		Type:        schema.TypeCapability,
		Description: "Assesses the system's capacity to understand social contexts, interpret human emotions and intentions, and engage appropriately in social interactions.",
		Guidance:    `Key Benchmarks to Look For:
Theory of Mind: ToMi, FaINoM, SOTOPIA
Emotional Intelligence: EmoBench, EQBench
Social Reasoning: Social IQa, CommonsenseQA
Dialogue: PersonaChat, BlendedSkillTalk
Psychology: Psychometrics Benchmark for LLMs

Evaluation Focus:
• Understanding social cues and context
• Appropriate emotional responses
• Maintaining consistent personality
• Theory of mind reasoning
• Cultural sensitivity and awareness

Common Risk Areas:
• Inappropriate anthropomorphization
• Cultural bias and insensitivity
• Lack of emotional regulation
• Manipulation potential`,
	},
	{
		ID:          "problem-solving",
		Name:        "Problem Solving",
		Type:        schema.TypeCapability,
		Description: "Measures the system's ability to analyze complex problems, develop solutions, and apply reasoning across various domains and contexts.",
		Guidance:    `Key Benchmarks to Look For:
Mathematical: GSM8K, MATH, FrontierMath, AIME
Logical Reasoning: LogiQA, ReClor, FOLIO
Programming: HumanEval, MBPP, SWE-bench
Scientific: SciQ, ScienceQA
Multi-step: StrategyQA, DROP, QuALITY

Evaluation Focus:
• Multi-step reasoning capability
• Mathematical and logical problem solving
• Code generation and debugging
• Scientific and analytical thinking
• Planning and strategy development

Common Risk Areas:
• Reasoning errors in complex problems
• Inconsistent problem-solving approaches
• Inability to show work or explain reasoning`,
	},
	{
		ID:          "creativity-innovation",
		Name:        "Creativity & Innovation",
		Type:        schema.TypeCapability,
		Description: "Evaluates the system's capacity for creative thinking, generating novel ideas, and producing original content across different creative domains.",
		Guidance:    `Key Benchmarks to Look For:
Creative Writing: CREAM, Creative Story Generation
Visual Creativity: FIQ (Figural Interpretation Quest)
Alternative Uses: AUT (Alternative Uses Task)
Artistic Generation: Aesthetic and originality scoring
Innovation: Novel solution generation tasks

Evaluation Focus:
• Originality and novelty of outputs
• Artistic and creative quality
• Ability to combine concepts innovatively
• Divergent thinking capabilities
• Value and usefulness of creative outputs

Common Risk Areas:
• Copyright and IP infringement
• Lack of genuine creativity vs. recombination
• Inappropriate or harmful creative content`,
	},
	{
		ID:          "learning-memory",
		Name:        "Learning & Memory",
		Type:        schema.TypeCapability,
		Description: "Assesses the system's ability to acquire new knowledge, retain information, and adapt behavior based on experience and feedback.",
		Guidance:    `Key Benchmarks to Look For:
Few-shot Learning: Omniglot, miniImageNet, Meta-Dataset
Transfer Learning: VTAB, BigTransfer
In-context Learning: ICL benchmarks across domains
Knowledge Retention: Long-term memory tests
Continual Learning: CORe50, Split-CIFAR

Evaluation Focus:
• Few-shot and zero-shot learning ability
• Knowledge transfer across domains
• Memory retention and recall
• Adaptation to new tasks
• Learning efficiency and speed

Common Risk Areas:
• Catastrophic forgetting
• Overfitting to limited examples
• Inability to generalize learned concepts`,
	},
	{
		ID:          "perception-vision",
		Name:        "Perception & Vision",
		Type:        schema.TypeCapability,
		Description: "Measures the system's capability to process, interpret, and understand visual information, images, and spatial relationships.",
		Guidance:    `Key Benchmarks to Look For:
Object Recognition: ImageNet, COCO, Open Images
Scene Understanding: ADE20K, Cityscapes
Robustness: ImageNet-C, ImageNet-A
Multimodal: VQA, CLIP benchmarks
3D Understanding: NYU Depth, KITTI

Evaluation Focus:
• Object detection and classification
• Scene understanding and segmentation
• Robustness to visual variations
• Integration with language understanding
• Real-world deployment performance

Common Risk Areas:
• Adversarial vulnerability
• Bias in image recognition
• Poor performance on edge cases`,
	},
	{
		ID:          "physical-manipulation",
		Name:        "Physical Manipulation & Motor Skills",
		Type:        schema.TypeCapability,
		Description: "Evaluates the system's ability to control physical actuators, manipulate objects, and perform motor tasks in physical environments.",
		Guidance:    `Key Benchmarks to Look For:
Grasping: YCB Object Set, Functional Grasping
Manipulation: RoboCAS, FMB (Functional Manipulation)
Assembly: NIST Assembly Task Boards
Navigation: Habitat, AI2-THOR challenges
Dexterity: Dexterous manipulation benchmarks

Evaluation Focus:
• Grasping and manipulation accuracy
• Adaptability to object variations
• Force control and delicate handling
• Spatial reasoning and planning
• Real-world deployment robustness

Common Risk Areas:
• Safety in human environments
• Damage to objects or environment
• Inconsistent performance across conditions`,
	},
	{
		ID:          "metacognition",
		Name:        "Metacognition & Self-Awareness",
		Type:        schema.TypeCapability,
		Description: "Assesses the system's ability to understand its own capabilities, limitations, and reasoning processes, including self-reflection and meta-learning.",
		Guidance:    `Key Benchmarks to Look For:
Confidence Calibration: Calibration metrics, ECE
Uncertainty Quantification: UQ benchmarks
Self-Assessment: Metacognitive accuracy tests
Know-Unknown: Known Unknowns benchmarks
Error Detection: Self-correction capabilities

Evaluation Focus:
• Confidence calibration accuracy
• Uncertainty expression and quantification
• Self-monitoring and error detection
• Knowledge boundary awareness
• Adaptive reasoning based on confidence

Common Risk Areas:
• Overconfidence in incorrect responses
• Poor uncertainty quantification
• Inability to recognize knowledge limits`,
	},
	{
		ID:          "robotic-intelligence",
		Name:        "Robotic Intelligence & Autonomy",
		Type:        schema.TypeCapability,
		Description: "Measures autonomous decision-making, navigation, and task execution in physical environments with minimal human intervention.",
		Guidance:    `Key Benchmarks to Look For:
Integrated Tasks: RoboCup, DARPA challenges
Navigation: Habitat challenges, real-world navigation
Manipulation: Integrated pick-and-place scenarios
Human-Robot Interaction: HRI benchmarks
Autonomy: Long-horizon task completion

Evaluation Focus:
• Integrated sensorimotor capabilities
• Autonomous decision-making
• Adaptability to dynamic environments
• Human-robot collaboration
• Long-term task execution

Common Risk Areas:
• Safety in unstructured environments
• Unpredictable autonomous behavior
• Failure to handle edge cases`,
	},
	{
		ID:          "harmful-content",
		Name:        "Harmful Content Generation",
		Type:        schema.TypeRisk,
		Description: "Evaluates risks related to generating harmful, offensive, illegal, or inappropriate content that could cause psychological, social, or physical harm.",
		Guidance:    `Key Evaluations to Look For:
Safety Benchmarks: AIR-Bench, MLCommons AI Safety
Red Teaming: Anthropic Constitutional AI, HarmBench
Content Filtering: Jigsaw Toxic Comments, HASOC
Adversarial: Jailbreaking attempts, prompt injection
Regulatory: NIST AI RMF compliance

Evaluation Focus:
• Refusal to generate harmful content
• Robustness against adversarial prompts
• Content filtering effectiveness
• Detection of subtle harmful content
• Consistency across different prompt styles

Critical Risk Areas:
• Violence and self-harm content
• Hate speech and discrimination
• Illegal activity instructions
• NSFW and inappropriate content`,
	},
	{
		ID:          "information-integrity",
		Name:        "Information Integrity & Misinformation",
		Type:        schema.TypeRisk,
		Description: "Assesses risks of generating false, misleading, or manipulated information that could undermine trust in information systems and decision-making.",
		Guidance:    `Key Evaluations to Look For:
Factuality: TruthfulQA, FEVER, HaluEval
Hallucination Detection: SelfCheckGPT, FActScore
Misinformation: LIAR dataset, fake news detection
Citation Accuracy: Citation verification benchmarks
Source Attribution: Provenance tracking tests

Evaluation Focus:
• Factual accuracy of generated content
• Hallucination rate and detection
• Proper source attribution
• Misinformation resistance
• Consistency across related queries

Critical Risk Areas:
• Medical misinformation
• Political disinformation
• False historical claims
• Fabricated citations`,
	},
	{
		ID:          "privacy-data",
		Name:        "Privacy & Data Protection",
		Type:        schema.TypeRisk,
		Description: "Evaluates risks to personal privacy, data security, and unauthorized access to or misuse of sensitive personal information.",
		Guidance:    `Key Evaluations to Look For:
Membership Inference: MIA benchmarks, CopyMark
Data Extraction: Training data extraction tests
PII Detection: Personal information leakage tests
Anonymization: De-identification benchmarks
GDPR Compliance: Right to be forgotten tests

Evaluation Focus:
• Training data memorization
• PII leakage prevention
• Membership inference resistance
• Data anonymization effectiveness
• Compliance with privacy regulations

Critical Risk Areas:
• Personal information exposure
• Training data memorization
• Inference of sensitive attributes
• Non-consensual data use`,
	},
	{
		ID:          "bias-fairness",
		Name:        "Bias & Fairness",
		Type:        schema.TypeRisk,
		Description: "Assesses risks of discriminatory outcomes, unfair treatment of different groups, and perpetuation of societal biases and inequalities.",
		Guidance:    `Key Evaluations to Look For:
Bias Benchmarks: Winogender, CrowS-Pairs, BOLD
Fairness Metrics: AI Fairness 360, Fairlearn
Demographic Bias: Representation across groups
Intersectional: Multi-dimensional bias analysis
Allocative Fairness: Resource distribution equity

Evaluation Focus:
• Demographic representation fairness
• Performance equity across groups
• Intersectional bias analysis
• Harmful stereotype perpetuation
• Allocative fairness in decisions

Critical Risk Areas:
• Employment discrimination
• Healthcare disparities
• Educational bias
• Criminal justice bias`,
	},
	{
		ID:          "security-robustness",
		Name:        "Security & Robustness",
		Type:        schema.TypeRisk,
		Description: "Evaluates vulnerabilities to adversarial attacks, system manipulation, and failure modes that could compromise system integrity and reliability.",
		Guidance:    `Key Evaluations to Look For:
Adversarial Robustness: AdvBench, RobustBench
Prompt Injection: AgentDojo, prompt injection tests
Model Extraction: Model theft resistance
Backdoor Detection: Trojaned model detection
OWASP LLM Top 10: Security vulnerability assessment

Evaluation Focus:
• Adversarial attack resistance
• Prompt injection robustness
• Model extraction protection
• Backdoor and trojan detection
• Input validation effectiveness

Critical Risk Areas:
• Prompt injection attacks
• Model theft and extraction
• Adversarial examples
• Supply chain attacks`,
	},
	{
		ID:          "dangerous-capabilities",
		Name:        "Dangerous Capabilities & Misuse",
		Type:        schema.TypeRisk,
		Description: "Assesses risks from capabilities that could be misused for harmful purposes, including dual-use applications and potential for weaponization.",
		Guidance:    `Key Evaluations to Look For:
CBRN Assessment: WMD information evaluation
Dual-Use: Misuse potential analysis
Cyber Capabilities: Offensive cyber evaluation
Weapons Information: Dangerous instruction filtering
Government Protocols: AISI, NIST evaluation standards

Evaluation Focus:
• CBRN information filtering
• Dual-use technology assessment
• Offensive capability evaluation
• Dangerous instruction refusal
• Misuse potential quantification

Critical Risk Areas:
• Chemical/biological weapons info
• Cyber attack capabilities
• Physical harm instructions
• Illegal activity facilitation`,
	},
	{
		ID:          "human-ai-interaction",
		Name:        "Human-AI Interaction Risks",
		Type:        schema.TypeRisk,
		Description: "Evaluates risks arising from human-AI interaction patterns, including over-reliance, manipulation, and degradation of human skills and autonomy.",
		Guidance:    `Key Evaluations to Look For:
Trust Calibration: Trust-LLM, reliance calibration metrics
Manipulation Detection: Emotional manipulation detection benchmarks
Anthropomorphism: Human-likeness perception studies
Safety in Dialogue: HAX, RealToxicityPrompts
User Guidance: Task adherence and guidance clarity tests

Evaluation Focus:
• Preventing over-reliance on AI
• Avoiding deceptive or manipulative responses
• Maintaining transparency about capabilities and limitations
• Providing safe, non-coercive interactions
• Ensuring user agency and decision-making control

Critical Risk Areas:
• Emotional manipulation
• Excessive trust leading to poor decisions
• Misrepresentation of capabilities
• Encouraging harmful behaviors`,
	},
	{
		ID:          "environmental-impact",
		Name:        "Environmental & Resource Impact",
		Type:        schema.TypeRisk,
		Description: "Evaluates environmental costs of AI development and deployment, including energy consumption, carbon footprint, and resource utilization.",
		Guidance:    `Key Evaluations to Look For:
Energy Usage: Carbon footprint estimation tools
Sustainability Metrics: Green AI benchmarks
Model Efficiency: Inference cost evaluations
Hardware Utilization: Resource optimization tests
Lifecycle Assessment: Full training-to-deployment impact analysis

Evaluation Focus:
• Measuring carbon footprint and energy use
• Optimizing for efficiency without performance loss
• Assessing environmental trade-offs
• Promoting sustainable deployment strategies

Critical Risk Areas:
• High carbon emissions from training
• Excessive energy use in inference
• Lack of transparency in environmental reporting`,
	},
	{
		ID:          "economic-displacement",
		Name:        "Economic & Labor Displacement",
		Type:        schema.TypeRisk,
		Description: "Evaluates potential economic disruption, job displacement, and impacts on labor markets and economic inequality from AI deployment.",
		Guidance:    `Key Evaluations to Look For:
Job Impact Studies: Task automation potential assessments
Market Disruption: Industry-specific displacement projections
Economic Modeling: Macro and microeconomic simulations
Skill Shift Analysis: Required workforce retraining benchmarks
Societal Impact: Equitable distribution of economic benefits

Evaluation Focus:
• Predicting job displacement risks
• Identifying emerging job opportunities
• Understanding shifts in skill demand
• Balancing automation benefits with societal costs

Critical Risk Areas:
• Large-scale unemployment
• Wage suppression
• Economic inequality`,
	},
	{
		ID:          "governance-accountability",
		Name:        "Governance & Accountability",
		Type:        schema.TypeRisk,
		Description: "Assesses risks related to lack of oversight, unclear responsibility structures, and insufficient governance mechanisms for AI systems.",
		Guidance:    `Key Evaluations to Look For:
Transparency: Model card completeness, datasheet reporting
Auditability: Traceability of decisions
Oversight Mechanisms: Compliance with governance frameworks
Responsibility Assignment: Clear chain of accountability
Standards Compliance: ISO, IEEE AI standards adherence

Evaluation Focus:
• Establishing clear accountability
• Ensuring decision traceability
• Meeting compliance and ethical guidelines
• Maintaining transparency across lifecycle

Critical Risk Areas:
• Lack of oversight
• Unclear responsibility in failures
• Insufficient transparency`,
	},
	{
		ID:          "value-chain",
		Name:        "Value Chain & Supply Chain Risks",
		Type:        schema.TypeRisk,
		Description: "Evaluates risks throughout the AI development and deployment pipeline, including data sourcing, model training, and third-party dependencies.",
		Guidance:    `Key Evaluations to Look For:
Provenance Tracking: Dataset and component origin verification
Third-Party Risk Assessment: Vendor dependency evaluations
Supply Chain Security: Software and hardware integrity checks
Integration Testing: Risk assessment in system integration
Traceability: End-to-end component documentation

Evaluation Focus:
• Managing third-party dependencies
• Verifying component provenance
• Securing the supply chain
• Mitigating integration risks

Critical Risk Areas:
• Compromised third-party components
• Data provenance issues
• Vendor lock-in and dependency risks`,
	},
}
