package renderer

// computeShaderSource is the GLSL compute kernel compiled by
// CompileShaderGLSL at GPU backend startup. It mirrors render/kernel.go's
// trace() and skyColor() almost statement for statement: same sky
// gradient, same shadow-acne bias, same material switch, same flat-BVH
// traversal with a fixed-depth stack. One invocation renders one sample
// for one pixel and accumulates into the output SSBO; the host divides by
// the number of samples taken so far (current_sample + 1) at readback time.
const computeShaderSource = `#version 450
layout(local_size_x = 8, local_size_y = 8, local_size_z = 1) in;

layout(binding = 0, std140) uniform Camera {
    vec3 camera_center;
    vec3 pixel00;
    vec3 pixel_delta_u;
    vec3 pixel_delta_v;
    vec3 defocus_disk_u;
    float defocus_angle;
    vec3 defocus_disk_v;
    float _pad0;
    int width;
    int height;
    int max_depth;
    int total_samples;
    int current_sample;
};

struct Sphere {
    vec3 center;
    float radius;
    vec3 albedo;
    int mat_type;
    float fuzz_or_ior;
};

layout(binding = 1, std430) readonly buffer Spheres {
    int sphere_count;
    int _pad1; int _pad2; int _pad3;
    Sphere spheres[];
};

struct BVHNode {
    vec3 aabb_min;
    int right_or_obj_idx;
    vec3 aabb_max;
    int left_idx;
};

layout(binding = 2, std430) readonly buffer BVH {
    int node_count;
    int _bpad1; int _bpad2; int _bpad3;
    BVHNode nodes[];
};

layout(binding = 3, std430) buffer Output {
    vec4 pixels[];
};

const float PI = 3.14159265358979323846;
const int MAT_LAMBERTIAN = 0;
const int MAT_METALLIC = 1;
const int MAT_DIELECTRIC = 2;

uint rngState;

uint pcgHash() {
    rngState = rngState * 747796405u + 2891336453u;
    uint word = ((rngState >> ((rngState >> 28u) + 4u)) ^ rngState) * 277803737u;
    return (word >> 22u) ^ word;
}

float randFloat() {
    return float(pcgHash()) / 4294967296.0;
}

// randomUnitVector reproduces the CPU backend's rejection-sampled scatter
// perturbation exactly: a point is drawn uniformly from [-1,1)^3, its
// squared length is restricted to (1e-30, 1], and the result is scaled by
// 1/lensq rather than 1/length. This is deliberately not unit length; the
// material scatter formulas were authored against this exact distribution,
// not a true uniform-on-sphere one.
vec3 randomUnitVector() {
    for (int i = 0; i < 64; i++) {
        vec3 p = vec3(randFloat(), randFloat(), randFloat()) * 2.0 - 1.0;
        float lensq = dot(p, p);
        if (lensq > 1e-30 && lensq <= 1.0) {
            return p / lensq;
        }
    }
    return vec3(0.0, 0.0, 1.0);
}

vec3 randomInUnitDisk() {
    float r = sqrt(randFloat());
    float a = randFloat() * 2.0 * PI;
    return vec3(r * cos(a), r * sin(a), 0.0);
}

bool hitAABB(BVHNode n, vec3 origin, vec3 invDir, float tMin, float tMax) {
    for (int axis = 0; axis < 3; axis++) {
        float t0 = (n.aabb_min[axis] - origin[axis]) * invDir[axis];
        float t1 = (n.aabb_max[axis] - origin[axis]) * invDir[axis];
        if (t0 > t1) { float tmp = t0; t0 = t1; t1 = tmp; }
        tMin = max(tMin, t0);
        tMax = min(tMax, t1);
        if (tMax <= tMin) return false;
    }
    return true;
}

bool hitSphere(Sphere s, vec3 origin, vec3 dir, float tMin, float tMax, out float outT, out vec3 outP, out vec3 outNormal, out bool outFront) {
    vec3 oc = s.center - origin;
    float a = dot(dir, dir);
    float h = dot(dir, oc);
    float c = dot(oc, oc) - s.radius * s.radius;
    float disc = h * h - a * c;
    if (disc < 0.0) return false;
    float sqrtd = sqrt(disc);

    float root = (h - sqrtd) / a;
    if (root <= tMin || root >= tMax) {
        root = (h + sqrtd) / a;
        if (root <= tMin || root >= tMax) return false;
    }

    outT = root;
    outP = origin + dir * root;
    vec3 outward = (outP - s.center) / s.radius;
    outFront = dot(dir, outward) < 0.0;
    outNormal = outFront ? outward : -outward;
    return true;
}

const int MAX_STACK = 64;

bool traceScene(vec3 origin, vec3 dir, float tMin, float tMax,
                 out float hitT, out vec3 hitP, out vec3 hitNormal, out bool hitFront, out int hitMat,
                 out vec3 hitAlbedo, out float hitFuzzOrIOR) {
    bool found = false;
    float closest = tMax;
    vec3 invDir = 1.0 / dir;

    int stack[MAX_STACK];
    int sp = 0;
    stack[sp++] = 0;

    while (sp > 0 && node_count > 0) {
        int idx = stack[--sp];
        BVHNode n = nodes[idx];
        if (!hitAABB(n, origin, invDir, tMin, closest)) continue;

        if (n.left_idx == -1) {
            int primIdx = -(n.right_or_obj_idx + 1);
            Sphere s = spheres[primIdx];
            float t; vec3 p; vec3 nrm; bool front;
            if (hitSphere(s, origin, dir, tMin, closest, t, p, nrm, front)) {
                found = true;
                closest = t;
                hitT = t; hitP = p; hitNormal = nrm; hitFront = front;
                hitMat = s.mat_type; hitAlbedo = s.albedo; hitFuzzOrIOR = s.fuzz_or_ior;
            }
        } else {
            BVHNode l = nodes[n.left_idx];
            BVHNode r = nodes[n.right_or_obj_idx];
            int axis = 0;
            float bestDiff = -1.0;
            for (int a = 0; a < 3; a++) {
                float diff = abs((l.aabb_min[a] + l.aabb_max[a]) - (r.aabb_min[a] + r.aabb_max[a]));
                if (diff > bestDiff) { bestDiff = diff; axis = a; }
            }
            float lc = l.aabb_min[axis] + l.aabb_max[axis];
            float rc = r.aabb_min[axis] + r.aabb_max[axis];
            bool leftNear = (dir[axis] >= 0.0) ? (lc <= rc) : (lc >= rc);
            int nearIdx = leftNear ? n.left_idx : n.right_or_obj_idx;
            int farIdx = leftNear ? n.right_or_obj_idx : n.left_idx;
            if (sp < MAX_STACK - 1) {
                stack[sp++] = farIdx;
                stack[sp++] = nearIdx;
            }
        }
    }

    return found;
}

vec3 skyColor(vec3 dir) {
    vec3 unitDir = normalize(dir);
    float a = 0.5 * (unitDir.y + 1.0);
    return (1.0 - a) * vec3(1.0) + a * vec3(0.5, 0.7, 1.0);
}

float reflectance(float cosine, float refIdx) {
    float r0 = (1.0 - refIdx) / (1.0 + refIdx);
    r0 = r0 * r0;
    return r0 + (1.0 - r0) * pow(1.0 - cosine, 5.0);
}

vec3 tracePath(vec3 origin, vec3 dir) {
    vec3 throughput = vec3(1.0);
    vec3 radiance = vec3(0.0);

    for (int depth = 0; depth < max_depth; depth++) {
        float hitT; vec3 hitP; vec3 hitNormal; bool hitFront; int hitMat;
        vec3 hitAlbedo; float hitFuzzOrIOR;

        if (!traceScene(origin, dir, 0.001, 1.0 / 0.0, hitT, hitP, hitNormal, hitFront, hitMat, hitAlbedo, hitFuzzOrIOR)) {
            return radiance + throughput * skyColor(dir);
        }

        if (hitMat == MAT_LAMBERTIAN) {
            vec3 scatterDir = hitNormal + randomUnitVector();
            if (dot(scatterDir, scatterDir) < 1e-12) scatterDir = hitNormal;
            throughput *= hitAlbedo;
            origin = hitP;
            dir = scatterDir;
        } else if (hitMat == MAT_METALLIC) {
            vec3 reflected = normalize(reflect(normalize(dir), hitNormal)) + hitFuzzOrIOR * randomUnitVector();
            if (dot(reflected, hitNormal) <= 0.0) return radiance;
            throughput *= hitAlbedo;
            origin = hitP;
            dir = reflected;
        } else {
            float ri = hitFront ? (1.0 / hitFuzzOrIOR) : hitFuzzOrIOR;
            vec3 unitDir = normalize(dir);
            float cosTheta = min(dot(-unitDir, hitNormal), 1.0);
            float sinTheta = sqrt(1.0 - cosTheta * cosTheta);
            bool cannotRefract = ri * sinTheta > 1.0;
            vec3 nextDir;
            if (cannotRefract || reflectance(cosTheta, ri) > randFloat()) {
                nextDir = reflect(unitDir, hitNormal);
            } else {
                vec3 rOutPerp = ri * (unitDir + cosTheta * hitNormal);
                vec3 rOutParallel = -sqrt(abs(1.0 - dot(rOutPerp, rOutPerp))) * hitNormal;
                nextDir = rOutPerp + rOutParallel;
            }
            origin = hitP;
            dir = nextDir;
        }
    }

    return radiance;
}

void main() {
    uvec2 pixel = gl_GlobalInvocationID.xy;
    if (pixel.x >= uint(width) || pixel.y >= uint(height)) return;

    uint pixelIndex = pixel.y * uint(width) + pixel.x;
    rngState = pixelIndex * 9781u + uint(current_sample) * 6271u + 1u;

    vec3 pixelSample = pixel00 + (float(pixel.x) + randFloat() - 0.5) * pixel_delta_u
                                + (float(pixel.y) + randFloat() - 0.5) * pixel_delta_v;

    vec3 origin = camera_center;
    if (defocus_angle > 0.0) {
        vec3 d = randomInUnitDisk();
        origin = camera_center + d.x * defocus_disk_u + d.y * defocus_disk_v;
    }
    vec3 dir = pixelSample - origin;

    vec3 color = tracePath(origin, dir);

    if (current_sample == 0) {
        pixels[pixelIndex] = vec4(color, 1.0);
    } else {
        pixels[pixelIndex] += vec4(color, 0.0);
    }
}
`
