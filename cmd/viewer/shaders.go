package main

const litVertex = `#version 410 core
in vec3 position;
in vec3 normal;
in vec2 uv;

uniform mat4 world;
uniform mat3 normalMatrix;
uniform mat4 viewProjection;
uniform mat4 lightViewProjection;

out vec3 vNormal;
out vec3 vWorld;
out vec2 vUV;
out vec4 vLight;

void main() {
	vec4 p = world * vec4(position, 1.0);
	vWorld = p.xyz;
	vNormal = normalMatrix * normal;
	vUV = uv;
	vLight = lightViewProjection * p;
	gl_Position = viewProjection * p;
}
`

const litFragment = `#version 410 core
in vec3 vNormal;
in vec3 vWorld;
in vec2 vUV;
in vec4 vLight;

uniform vec3 lightColor;
uniform float lightIntensity;
uniform vec3 lightDirection;
uniform vec3 cameraPosition;
uniform vec4 background;
uniform float fogDistance;
uniform bool fog;
uniform vec4 tint;
uniform sampler2D albedo;
uniform sampler2D shadowMap;

out vec4 color;

float shadow() {
	vec3 p = vLight.xyz / vLight.w * 0.5 + 0.5;
	if (p.z > 1.0) {
		return 1.0;
	}
	return p.z - 0.005 > texture(shadowMap, p.xy).r ? 0.4 : 1.0;
}

void main() {
	float diffuse = max(dot(normalize(vNormal), -lightDirection), 0.0);
	vec3 base = texture(albedo, vUV).rgb * tint.rgb;
	vec3 lit = base * (0.25 + lightColor * lightIntensity * diffuse * shadow());
	if (fog && fogDistance > 0.0) {
		float f = clamp(length(vWorld - cameraPosition) / fogDistance, 0.0, 1.0);
		lit = mix(lit, background.rgb, f);
	}
	color = vec4(lit, tint.a);
}
`

const depthVertex = `#version 410 core
in vec3 position;
uniform mat4 world;
uniform mat4 viewProjection;
out float vDepth;

void main() {
	gl_Position = viewProjection * world * vec4(position, 1.0);
	vDepth = gl_Position.z / gl_Position.w * 0.5 + 0.5;
}
`

const depthFragment = `#version 410 core
in float vDepth;
out vec4 color;

void main() {
	color = vec4(vDepth, vDepth, vDepth, 1.0);
}
`

const labelFragment = `#version 410 core
in vec2 vUV;
uniform sampler2D albedo;
uniform vec4 tint;
out vec4 color;

void main() {
	float a = texture(albedo, vUV).r;
	color = vec4(mix(vec3(0.1), tint.rgb, a), 1.0);
}
`

const labelVertex = `#version 410 core
in vec3 position;
in vec2 uv;
uniform mat4 world;
uniform mat4 viewProjection;
out vec2 vUV;

void main() {
	vUV = uv;
	gl_Position = viewProjection * world * vec4(position, 1.0);
}
`
